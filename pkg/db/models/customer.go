package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/zubairqazi/bazaarline-backend/pkg/types"
)

// Customer is the buyer directory record. The shipping address is snapshotted
// into orders at creation time.
type Customer struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string         `gorm:"column:name;not null"`
	Email           string         `gorm:"column:email;not null"`
	Phone           *string        `gorm:"column:phone"`
	ShippingAddress *types.Address `gorm:"column:shipping_address;type:jsonb"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
