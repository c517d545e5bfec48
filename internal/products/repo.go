package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
)

// StockDecrement is one entry of a batched stock update.
type StockDecrement struct {
	ProductID uuid.UUID
	Qty       int
}

// Repository is the product catalog surface consumed by pricing, inventory,
// cart and order settlement.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	BulkDecrementStock(ctx context.Context, decrements []StockDecrement) error
	IncrementSold(ctx context.Context, productID uuid.UUID, qty int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// BulkDecrementStock applies every decrement as one batched statement set.
// A decrement may drive stock negative only if a concurrent order slipped in
// between the orderability check and this write; the floor guard keeps the
// column at zero in that case.
func (r *repository) BulkDecrementStock(ctx context.Context, decrements []StockDecrement) error {
	if len(decrements) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)
	for _, dec := range decrements {
		if dec.Qty <= 0 {
			continue
		}
		err := db.Model(&models.Product{}).
			Where("id = ?", dec.ProductID).
			Update("stock", gorm.Expr("CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", dec.Qty, dec.Qty)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) IncrementSold(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("sold", gorm.Expr("sold + ?", qty)).Error
}
