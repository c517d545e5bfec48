package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/internal/products"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
)

// Service resolves the current effective price of a product. Callers snapshot
// the value into carts and orders; nothing here is cached.
type Service interface {
	GetEffectivePrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	ResolveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

type service struct {
	products products.Repository
}

// NewService builds a pricing resolver with the required dependencies.
func NewService(repo products.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{products: repo}, nil
}

// GetEffectivePrice returns listPrice minus the flat discount.
func (s *service) GetEffectivePrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	product, err := s.ResolveProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return product.EffectivePrice(), nil
}

// ResolveProduct loads the product backing a price lookup.
func (s *service) ResolveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
