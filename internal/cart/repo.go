package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
)

// Repository manages persistence for carts and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	FindActiveByCustomerAndVendor(ctx context.Context, customerID, vendorID uuid.UUID) (*models.Cart, error)
	ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, unitPrice decimal.Decimal) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	UpdateTotals(ctx context.Context, cartID uuid.UUID, version int, totals Totals) (bool, error)
	MarkConverted(ctx context.Context, cartID uuid.UUID, version int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) FindActiveByCustomerAndVendor(ctx context.Context, customerID, vendorID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ? AND vendor_id = ? AND status = ?", customerID, vendorID, enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Cart, error) {
	var carts []models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ? AND status = ?", customerID, enums.CartStatusActive).
		Order("created_at ASC").
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *repository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"quantity":   quantity,
			"unit_price": unitPrice,
		}).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.CartItem{}).Error
}

// UpdateTotals persists the recomputed totals with a compare-and-swap on the
// version column. A false return means a concurrent writer got there first.
func (r *repository) UpdateTotals(ctx context.Context, cartID uuid.UUID, version int, totals Totals) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND version = ?", cartID, version).
		Updates(map[string]any{
			"total_qty":             totals.TotalQty,
			"sub_total_amount":      totals.SubTotalAmount,
			"total_discount_amount": totals.TotalDiscountAmount,
			"total_tax_amount":      totals.TotalTaxAmount,
			"total_weight":          totals.TotalWeight,
			"total_amount":          totals.TotalAmount,
			"version":               gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkConverted flips an active cart to converted with the same version CAS.
func (r *repository) MarkConverted(ctx context.Context, cartID uuid.UUID, version int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND version = ? AND status = ?", cartID, version, enums.CartStatusActive).
		Updates(map[string]any{
			"status":       enums.CartStatusConverted,
			"converted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
