package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SellerWallet is the single mutable balance row per vendor. Balances only
// move through conditional increment/decrement updates.
type SellerWallet struct {
	ID                       uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID                 uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:uq_seller_wallets_vendor"`
	WithdrawableBalance      decimal.Decimal `gorm:"column:withdrawable_balance;type:numeric(12,2);not null;default:0"`
	PendingWithdraw          decimal.Decimal `gorm:"column:pending_withdraw;type:numeric(12,2);not null;default:0"`
	AlreadyWithdrawn         decimal.Decimal `gorm:"column:already_withdrawn;type:numeric(12,2);not null;default:0"`
	TotalCommissionGiven     decimal.Decimal `gorm:"column:total_commission_given;type:numeric(12,2);not null;default:0"`
	TotalTaxGiven            decimal.Decimal `gorm:"column:total_tax_given;type:numeric(12,2);not null;default:0"`
	TotalDeliveryChargeGiven decimal.Decimal `gorm:"column:total_delivery_charge_given;type:numeric(12,2);not null;default:0"`
	CollectedCash            decimal.Decimal `gorm:"column:collected_cash;type:numeric(12,2);not null;default:0"`
	Version                  int             `gorm:"column:version;not null;default:0"`
	CreatedAt                time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
