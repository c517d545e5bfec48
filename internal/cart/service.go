package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/internal/inventory"
	"github.com/zubairqazi/bazaarline-backend/internal/pricing"
	"github.com/zubairqazi/bazaarline-backend/pkg/cache"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

// cartUpdateMaxAttempts bounds the optimistic-concurrency retry loop.
const cartUpdateMaxAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type cacheInvalidator interface {
	DeriveKey(entity cache.Entity, id string, params ...cache.Param) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, payload any)
	InvalidateEntity(ctx context.Context, entities ...cache.Entity)
}

// ApplyItemDeltaInput is the single cart mutation request: a signed quantity
// delta against one product.
type ApplyItemDeltaInput struct {
	CustomerID    uuid.UUID
	ProductID     uuid.UUID
	QuantityDelta int
}

// Service aggregates cart line items and keeps the derived totals consistent.
type Service interface {
	ApplyItemDelta(ctx context.Context, input ApplyItemDeltaInput) (*models.Cart, error)
	GetActiveCarts(ctx context.Context, customerID uuid.UUID) ([]models.Cart, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	customers customerDirectory
	pricing   pricing.Service
	inventory inventory.Service
	cache     cacheInvalidator
	logg      *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, tx txRunner, customers customerDirectory, pricingSvc pricing.Service, inventorySvc inventory.Service, cacheStore cacheInvalidator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer directory required")
	}
	if pricingSvc == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if inventorySvc == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if cacheStore == nil {
		return nil, fmt.Errorf("cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		customers: customers,
		pricing:   pricingSvc,
		inventory: inventorySvc,
		cache:     cacheStore,
		logg:      logg,
	}, nil
}

// ApplyItemDelta applies a signed quantity delta to the (customer, vendor)
// cart, creating the cart lazily and removing line items that net to zero.
// Totals are recomputed from the surviving items on every call.
func (s *service) ApplyItemDelta(ctx context.Context, input ApplyItemDeltaInput) (*models.Cart, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.QuantityDelta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity delta must be non-zero")
	}

	if _, err := s.customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	product, err := s.pricing.ResolveProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if input.QuantityDelta > 0 {
		orderable, err := s.inventory.IsOrderable(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if !orderable {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "product is out of stock")
		}
	}

	var updated *models.Cart
	for attempt := 0; attempt < cartUpdateMaxAttempts; attempt++ {
		updated, err = s.applyDeltaOnce(ctx, input, product)
		if err == nil {
			break
		}
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateEntity(ctx, cache.EntityCart)
	return updated, nil
}

func (s *service) applyDeltaOnce(ctx context.Context, input ApplyItemDeltaInput, product *models.Product) (*models.Cart, error) {
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := repo.FindActiveByCustomerAndVendor(ctx, input.CustomerID, product.VendorID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		if loaded == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			loaded = &models.Cart{
				ID:         uuid.New(),
				CustomerID: input.CustomerID,
				VendorID:   product.VendorID,
			}
			if err := repo.Create(ctx, loaded); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
			}
		}

		items, err := s.mutateItems(ctx, repo, loaded, input, product)
		if err != nil {
			return err
		}

		totals := ComputeTotals(items)
		ok, err := repo.UpdateTotals(ctx, loaded.ID, loaded.Version, totals)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart totals")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart was modified concurrently")
		}

		totals.Apply(loaded)
		loaded.Version++
		loaded.Items = items
		result = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// mutateItems applies the delta to the matching line item and returns the
// post-mutation item set.
func (s *service) mutateItems(ctx context.Context, repo Repository, cart *models.Cart, input ApplyItemDeltaInput, product *models.Product) ([]models.CartItem, error) {
	var existing *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == input.ProductID {
			existing = &cart.Items[i]
			break
		}
	}

	if existing == nil {
		if input.QuantityDelta <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "cannot remove a product that is not in the cart")
		}
		item := models.CartItem{
			ID:           uuid.New(),
			CartID:       cart.ID,
			ProductID:    product.ID,
			Quantity:     input.QuantityDelta,
			UnitPrice:    product.Price,
			UnitDiscount: product.DiscountAmount,
			UnitTax:      product.TaxAmount,
			UnitWeight:   product.Weight,
		}
		if err := repo.CreateItem(ctx, &item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart item")
		}
		return append(cart.Items, item), nil
	}

	newQty := existing.Quantity + input.QuantityDelta
	switch {
	case newQty < 0:
		msg := fmt.Sprintf("quantity in cart is %d, cannot subtract %d", existing.Quantity, -input.QuantityDelta)
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, msg)

	case newQty == 0:
		if err := repo.DeleteItem(ctx, existing.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
		}
		items := make([]models.CartItem, 0, len(cart.Items)-1)
		for _, item := range cart.Items {
			if item.ID != existing.ID {
				items = append(items, item)
			}
		}
		return items, nil

	default:
		// The price snapshot is refreshed to the product's current value;
		// discount, tax and weight keep their original snapshots.
		if err := repo.UpdateItem(ctx, existing.ID, newQty, product.Price); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
		existing.Quantity = newQty
		existing.UnitPrice = product.Price
		return cart.Items, nil
	}
}

// GetActiveCarts returns the customer's active carts through the read cache.
func (s *service) GetActiveCarts(ctx context.Context, customerID uuid.UUID) ([]models.Cart, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	key := s.cache.DeriveKey(cache.EntityCart, customerID.String())
	var cached []models.Cart
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	carts, err := s.repo.ListActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list carts")
	}
	s.cache.Set(ctx, key, carts)
	return carts, nil
}
