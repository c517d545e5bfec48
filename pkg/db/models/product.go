package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the catalog listing. Price, discount, tax and weight are the
// per-unit values snapshotted into carts and orders.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID       uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	Name           string          `gorm:"column:name;not null"`
	Slug           string          `gorm:"column:slug;not null"`
	Images         pq.StringArray  `gorm:"column:images;type:text[]"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	Weight         decimal.Decimal `gorm:"column:weight;type:numeric(12,3);not null;default:0"`
	Stock          int             `gorm:"column:stock;not null;default:0"`
	Sold           int             `gorm:"column:sold;not null;default:0"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the unit price after the flat discount.
func (p Product) EffectivePrice() decimal.Decimal {
	return p.Price.Sub(p.DiscountAmount)
}
