package withdrawals

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
)

// RequestInput carries a seller's payout request.
type RequestInput struct {
	VendorID uuid.UUID
	Amount   decimal.Decimal
	Note     *string
}

// ResolveInput carries the admin decision for a pending withdraw request.
type ResolveInput struct {
	WithdrawalID uuid.UUID
	Status       enums.WithdrawStatus
	Note         *string
	ReceiptRef   *string
}

// WithdrawRequestedEvent is the outbox payload emitted when a request is filed.
type WithdrawRequestedEvent struct {
	WithdrawalID uuid.UUID       `json:"withdrawal_id"`
	VendorID     uuid.UUID       `json:"vendor_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// WithdrawResolvedEvent is the outbox payload emitted when a request is
// approved or rejected.
type WithdrawResolvedEvent struct {
	WithdrawalID uuid.UUID            `json:"withdrawal_id"`
	VendorID     uuid.UUID            `json:"vendor_id"`
	Amount       decimal.Decimal      `json:"amount"`
	Status       enums.WithdrawStatus `json:"status"`
}
