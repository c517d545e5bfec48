package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
)

// Cart is the per (customer, vendor) aggregation. Totals are derived from the
// items and recomputed on every mutation, never hand-edited.
type Cart struct {
	ID                  uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID          uuid.UUID        `gorm:"column:customer_id;type:uuid;not null;index"`
	VendorID            uuid.UUID        `gorm:"column:vendor_id;type:uuid;not null;index"`
	Status              enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	TotalQty            int              `gorm:"column:total_qty;not null;default:0"`
	SubTotalAmount      decimal.Decimal  `gorm:"column:sub_total_amount;type:numeric(12,2);not null;default:0"`
	TotalDiscountAmount decimal.Decimal  `gorm:"column:total_discount_amount;type:numeric(12,2);not null;default:0"`
	TotalTaxAmount      decimal.Decimal  `gorm:"column:total_tax_amount;type:numeric(12,2);not null;default:0"`
	TotalWeight         decimal.Decimal  `gorm:"column:total_weight;type:numeric(12,3);not null;default:0"`
	TotalAmount         decimal.Decimal  `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Version             int              `gorm:"column:version;not null;default:0"`
	ConvertedAt         *time.Time       `gorm:"column:converted_at"`
	Items               []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
