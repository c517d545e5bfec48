package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminWalletEntry is one append-only ledger row per settlement event. The
// platform balance is the aggregation over all rows, not a running counter.
type AdminWalletEntry struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID            uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	OrderID             *uuid.UUID      `gorm:"column:order_id;type:uuid;uniqueIndex:uq_admin_wallet_entries_order"`
	PendingAmount       decimal.Decimal `gorm:"column:pending_amount;type:numeric(12,2);not null;default:0"`
	CommissionEarned    decimal.Decimal `gorm:"column:commission_earned;type:numeric(12,2);not null;default:0"`
	TotalTaxCollected   decimal.Decimal `gorm:"column:total_tax_collected;type:numeric(12,2);not null;default:0"`
	InHouseEarning      decimal.Decimal `gorm:"column:in_house_earning;type:numeric(12,2);not null;default:0"`
	DeliveryChargeGiven decimal.Decimal `gorm:"column:delivery_charge_given;type:numeric(12,2);not null;default:0"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
}
