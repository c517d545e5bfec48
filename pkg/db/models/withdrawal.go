package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
)

// Withdrawal is a seller payout request. Approved and rejected rows are
// immutable.
type Withdrawal struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID   uuid.UUID            `gorm:"column:vendor_id;type:uuid;not null;index"`
	Amount     decimal.Decimal      `gorm:"column:amount;type:numeric(12,2);not null"`
	Status     enums.WithdrawStatus `gorm:"column:status;not null;default:'pending'"`
	Note       *string              `gorm:"column:note"`
	ReceiptRef *string              `gorm:"column:receipt_ref"`
	ResolvedAt *time.Time           `gorm:"column:resolved_at"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
