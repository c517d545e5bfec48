package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/internal/inventory"
	"github.com/zubairqazi/bazaarline-backend/internal/pricing"
	"github.com/zubairqazi/bazaarline-backend/internal/products"
	"github.com/zubairqazi/bazaarline-backend/pkg/cache"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

func TestApplyItemDeltaCreatesCartAndItem(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	product := newTestProduct(10)
	repo := &stubCartRepo{}
	svc := newCartTestService(t, repo, customerID, product)

	got, err := svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID:    customerID,
		ProductID:     product.ID,
		QuantityDelta: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("expected one item with qty 2, got %+v", got.Items)
	}
	if got.TotalQty != 2 {
		t.Fatalf("expected total qty 2, got %d", got.TotalQty)
	}
	if !got.SubTotalAmount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected subtotal 200, got %s", got.SubTotalAmount)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(190)) {
		t.Fatalf("expected total 190 (200 - 20 + 10), got %s", got.TotalAmount)
	}
}

func TestApplyItemDeltaRoundTripRemovesItem(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	product := newTestProduct(10)
	repo := &stubCartRepo{}
	svc := newCartTestService(t, repo, customerID, product)

	if _, err := svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID: customerID, ProductID: product.ID, QuantityDelta: 3,
	}); err != nil {
		t.Fatalf("unexpected error on add: %v", err)
	}

	got, err := svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID: customerID, ProductID: product.ID, QuantityDelta: -3,
	})
	if err != nil {
		t.Fatalf("unexpected error on remove: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(got.Items))
	}
	if got.TotalQty != 0 || !got.TotalAmount.IsZero() {
		t.Fatalf("expected zeroed totals, got qty=%d total=%s", got.TotalQty, got.TotalAmount)
	}
}

func TestApplyItemDeltaNegativeBeyondQuantity(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	product := newTestProduct(10)
	repo := &stubCartRepo{}
	svc := newCartTestService(t, repo, customerID, product)

	if _, err := svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID: customerID, ProductID: product.ID, QuantityDelta: 2,
	}); err != nil {
		t.Fatalf("unexpected error on add: %v", err)
	}

	_, err := svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID: customerID, ProductID: product.ID, QuantityDelta: -5,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid operation, got %v", err)
	}
	if repo.cart.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity unchanged at 2, got %d", repo.cart.Items[0].Quantity)
	}
}

func TestApplyItemDeltaRemoveAbsentProduct(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	product := newTestProduct(10)
	repo := &stubCartRepo{}
	svc := newCartTestService(t, repo, customerID, product)

	_, err := svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID: customerID, ProductID: product.ID, QuantityDelta: -1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid operation, got %v", err)
	}
}

func TestApplyItemDeltaOutOfStock(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	product := newTestProduct(0)
	repo := &stubCartRepo{}
	svc := newCartTestService(t, repo, customerID, product)

	_, err := svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID: customerID, ProductID: product.ID, QuantityDelta: 1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid operation for out of stock, got %v", err)
	}
}

func TestApplyItemDeltaRemovalAllowedWhenOutOfStock(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	product := newTestProduct(0)
	repo := &stubCartRepo{
		cart: &models.Cart{
			ID:         uuid.New(),
			CustomerID: customerID,
			VendorID:   product.VendorID,
			Items: []models.CartItem{
				{ID: uuid.New(), ProductID: product.ID, Quantity: 1, UnitPrice: product.Price},
			},
		},
	}
	svc := newCartTestService(t, repo, customerID, product)

	got, err := svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID: customerID, ProductID: product.ID, QuantityDelta: -1,
	})
	if err != nil {
		t.Fatalf("unexpected error removing from out-of-stock product: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected item removed, got %d items", len(got.Items))
	}
}

func TestApplyItemDeltaUnknownCustomer(t *testing.T) {
	t.Parallel()

	product := newTestProduct(10)
	repo := &stubCartRepo{}
	svc, err := NewService(
		repo,
		stubTxRunner{},
		customerDirectoryFunc(func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
			return nil, gorm.ErrRecordNotFound
		}),
		newStubPricing(t, product),
		newStubInventory(t, product),
		noopCache{},
		testLogger(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID: uuid.New(), ProductID: product.ID, QuantityDelta: 1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApplyItemDeltaConcurrentConflictExhaustsRetries(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	product := newTestProduct(10)
	repo := &stubCartRepo{updateFailures: cartUpdateMaxAttempts}
	svc := newCartTestService(t, repo, customerID, product)

	_, err := svc.ApplyItemDelta(context.Background(), ApplyItemDeltaInput{
		CustomerID: customerID, ProductID: product.ID, QuantityDelta: 1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict after retries, got %v", err)
	}
}

func TestGetActiveCartsRequiresCustomer(t *testing.T) {
	t.Parallel()

	product := newTestProduct(10)
	svc := newCartTestService(t, &stubCartRepo{}, uuid.New(), product)

	_, err := svc.GetActiveCarts(context.Background(), uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func newTestProduct(stock int) *models.Product {
	return &models.Product{
		ID:             uuid.New(),
		VendorID:       uuid.New(),
		Name:           "widget",
		Price:          decimal.NewFromInt(100),
		DiscountAmount: decimal.NewFromInt(10),
		TaxAmount:      decimal.NewFromInt(5),
		Weight:         decimal.NewFromFloat(0.5),
		Stock:          stock,
	}
}

func newCartTestService(t *testing.T, repo Repository, customerID uuid.UUID, product *models.Product) Service {
	t.Helper()

	svc, err := NewService(
		repo,
		stubTxRunner{},
		customerDirectoryFunc(func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
			return &models.Customer{ID: customerID, Name: "buyer"}, nil
		}),
		newStubPricing(t, product),
		newStubInventory(t, product),
		noopCache{},
		testLogger(),
	)
	if err != nil {
		t.Fatalf("unexpected error building service: %v", err)
	}
	return svc
}

func newStubPricing(t *testing.T, product *models.Product) pricing.Service {
	t.Helper()
	svc, err := pricing.NewService(&stubProductRepo{product: product})
	if err != nil {
		t.Fatalf("unexpected error building pricing: %v", err)
	}
	return svc
}

func newStubInventory(t *testing.T, product *models.Product) inventory.Service {
	t.Helper()
	svc, err := inventory.NewService(&stubProductRepo{product: product})
	if err != nil {
		t.Fatalf("unexpected error building inventory: %v", err)
	}
	return svc
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubCartRepo struct {
	cart           *models.Cart
	updateFailures int
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	if s.cart == nil || s.cart.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}

func (s *stubCartRepo) FindActiveByCustomerAndVendor(ctx context.Context, customerID, vendorID uuid.UUID) (*models.Cart, error) {
	if s.cart == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}

func (s *stubCartRepo) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Cart, error) {
	if s.cart == nil {
		return nil, nil
	}
	return []models.Cart{*s.cart}, nil
}

func (s *stubCartRepo) Create(ctx context.Context, cart *models.Cart) error {
	s.cart = cart
	return nil
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCartRepo) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error { return nil }

func (s *stubCartRepo) UpdateTotals(ctx context.Context, cartID uuid.UUID, version int, totals Totals) (bool, error) {
	if s.updateFailures > 0 {
		s.updateFailures--
		return false, nil
	}
	return true, nil
}

func (s *stubCartRepo) MarkConverted(ctx context.Context, cartID uuid.UUID, version int) (bool, error) {
	return true, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type customerDirectoryFunc func(ctx context.Context, id uuid.UUID) (*models.Customer, error)

func (fn customerDirectoryFunc) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return fn(ctx, id)
}

type stubProductRepo struct {
	product *models.Product
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) error { return nil }

func (s *stubProductRepo) BulkDecrementStock(ctx context.Context, decrements []products.StockDecrement) error {
	return nil
}

func (s *stubProductRepo) IncrementSold(ctx context.Context, productID uuid.UUID, qty int) error {
	return nil
}

type noopCache struct{}

func (noopCache) DeriveKey(entity cache.Entity, id string, params ...cache.Param) string {
	return string(entity) + ":" + id
}
func (noopCache) Get(ctx context.Context, key string, dest any) bool { return false }

func (noopCache) Set(ctx context.Context, key string, payload any) {}

func (noopCache) InvalidateEntity(ctx context.Context, entities ...cache.Entity) {}
