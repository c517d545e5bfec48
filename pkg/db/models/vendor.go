package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
)

// Vendor is the seller directory record, including the counters maintained by
// order settlement.
type Vendor struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string           `gorm:"column:name;not null"`
	Email            string           `gorm:"column:email;not null"`
	Role             enums.VendorRole `gorm:"column:role;not null;default:'seller'"`
	TotalOrders      int              `gorm:"column:total_orders;not null;default:0"`
	TotalProducts    int              `gorm:"column:total_products;not null;default:0"`
	ApprovedProducts int              `gorm:"column:approved_products;not null;default:0"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
