package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
)

// LineItemInput is one product+quantity entry of an order request.
type LineItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateInput carries the validated order-creation request.
type CreateInput struct {
	CustomerID        uuid.UUID
	VendorID          uuid.UUID
	LineItems         []LineItemInput
	TotalQty          int
	TotalAmount       decimal.Decimal
	TotalDiscount     decimal.Decimal
	TotalTaxAmount    decimal.Decimal
	TotalShippingCost decimal.Decimal
	PaymentMethod     enums.PaymentMethod
	OrderNote         *string
}

// CheckoutInput converts a customer's active cart into an order.
type CheckoutInput struct {
	CustomerID    uuid.UUID
	VendorID      uuid.UUID
	PaymentMethod enums.PaymentMethod
	OrderNote     *string
}

// OrderCreatedEvent is the outbox payload emitted when an order is persisted.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalQty    int             `json:"total_qty"`
}

// OrderStatusChangedEvent is the outbox payload emitted on every transition.
type OrderStatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	VendorID    uuid.UUID         `json:"vendor_id"`
	FromStatus  enums.OrderStatus `json:"from_status"`
	ToStatus    enums.OrderStatus `json:"to_status"`
}

// SettlementRecordedEvent is emitted once the delivered-order money movement
// has been applied.
type SettlementRecordedEvent struct {
	OrderID       uuid.UUID       `json:"order_id"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	Commission    decimal.Decimal `json:"commission"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// CartConvertedEvent is emitted when checkout snapshots a cart into an order.
type CartConvertedEvent struct {
	CartID  uuid.UUID `json:"cart_id"`
	OrderID uuid.UUID `json:"order_id"`
}
