package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/internal/products"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
)

// Service gates ordering on stock presence. The check is presence-only:
// any stock at all makes a product orderable, regardless of the requested
// quantity.
type Service interface {
	IsOrderable(ctx context.Context, productID uuid.UUID) (bool, error)
	BulkDecrementStock(ctx context.Context, tx *gorm.DB, decrements []products.StockDecrement) error
}

type service struct {
	products products.Repository
}

// NewService builds an inventory gate with the required dependencies.
func NewService(repo products.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{products: repo}, nil
}

// IsOrderable reports whether the product has any stock left.
func (s *service) IsOrderable(ctx context.Context, productID uuid.UUID) (bool, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product.Stock > 0, nil
}

// BulkDecrementStock applies the batched stock decrement inside the caller's
// transaction when one is provided.
func (s *service) BulkDecrementStock(ctx context.Context, tx *gorm.DB, decrements []products.StockDecrement) error {
	repo := s.products
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	if err := repo.BulkDecrementStock(ctx, decrements); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
	}
	return nil
}
