package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessSetting holds platform-wide settlement knobs. The most recently
// created row is the active one.
type BusinessSetting struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DefaultCommissionRate decimal.Decimal `gorm:"column:default_commission_rate;type:numeric(5,2);not null;default:0"`
	ShippingCharge        decimal.Decimal `gorm:"column:shipping_charge;type:numeric(12,2);not null;default:0"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
}
