package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
	"github.com/zubairqazi/bazaarline-backend/pkg/types"
)

// Order is the immutable purchase snapshot. Monetary fields never change after
// creation; only the fulfillment status and payment fields transition.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber       string              `gorm:"column:order_number;not null;uniqueIndex:uq_orders_order_number"`
	CustomerID        uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	VendorID          uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index"`
	Status            enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;not null;default:'unpaid'"`
	OrderNote         *string             `gorm:"column:order_note"`
	TotalQty          int                 `gorm:"column:total_qty;not null;default:0"`
	TotalAmount       decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	TotalDiscount     decimal.Decimal     `gorm:"column:total_discount;type:numeric(12,2);not null;default:0"`
	TotalTaxAmount    decimal.Decimal     `gorm:"column:total_tax_amount;type:numeric(12,2);not null;default:0"`
	TotalShippingCost decimal.Decimal     `gorm:"column:total_shipping_cost;type:numeric(12,2);not null;default:0"`
	ShippingAddress   *types.Address      `gorm:"column:shipping_address;type:jsonb"`
	BillingAddress    *types.Address      `gorm:"column:billing_address;type:jsonb"`
	LineItems         []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveredAt       *time.Time          `gorm:"column:delivered_at"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
