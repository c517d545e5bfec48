package orders

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/internal/cart"
	"github.com/zubairqazi/bazaarline-backend/internal/inventory"
	"github.com/zubairqazi/bazaarline-backend/internal/products"
	"github.com/zubairqazi/bazaarline-backend/internal/vendors"
	"github.com/zubairqazi/bazaarline-backend/internal/wallets"
	"github.com/zubairqazi/bazaarline-backend/pkg/cache"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
	"github.com/zubairqazi/bazaarline-backend/pkg/outbox"
)

type orderFixture struct {
	repo     *stubOrderRepo
	vendors  *stubVendorRepo
	products *stubProductRepo
	carts    *stubCartRepo
	wallets  *stubWalletSettler
	outbox   *stubOutbox
	customer *models.Customer
	vendor   *models.Vendor
	svc      Service
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		repo:     &stubOrderRepo{},
		vendors:  &stubVendorRepo{},
		products: &stubProductRepo{stock: map[uuid.UUID]int{}},
		carts:    &stubCartRepo{},
		wallets:  &stubWalletSettler{},
		outbox:   &stubOutbox{},
		customer: &models.Customer{ID: uuid.New(), Name: "buyer"},
	}
	f.vendor = &models.Vendor{ID: uuid.New(), Name: "shop", Role: enums.VendorRoleSeller}
	f.vendors.vendor = f.vendor

	inventorySvc, err := inventory.NewService(f.products)
	if err != nil {
		t.Fatalf("unexpected error building inventory: %v", err)
	}

	svc, err := NewService(Deps{
		Repo: f.repo,
		Tx:   stubTxRunner{},
		Customers: customerDirectoryFunc(func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
			if id != f.customer.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return f.customer, nil
		}),
		Vendors:   f.vendors,
		Products:  f.products,
		Inventory: inventorySvc,
		Settings: commissionSourceFunc(func(ctx context.Context) (decimal.Decimal, error) {
			return decimal.NewFromInt(10), nil
		}),
		Wallets: f.wallets,
		Carts:   f.carts,
		Outbox:  f.outbox,
		Cache:   noopCache{},
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("unexpected error building service: %v", err)
	}
	f.svc = svc
	return f
}

func TestCreateUnknownCustomer(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	productID := uuid.New()
	f.products.stock[productID] = 5

	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID:    uuid.New(),
		VendorID:      f.vendor.ID,
		LineItems:     []LineItemInput{{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
		TotalAmount:   decimal.NewFromInt(10),
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(f.repo.created) != 0 {
		t.Fatalf("expected no order persisted, got %d", len(f.repo.created))
	}
}

func TestCreateOutOfStockProduct(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	productID := uuid.New()
	f.products.stock[productID] = 0

	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID:    f.customer.ID,
		VendorID:      f.vendor.ID,
		LineItems:     []LineItemInput{{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
		TotalAmount:   decimal.NewFromInt(10),
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid operation, got %v", err)
	}
	if len(f.repo.created) != 0 {
		t.Fatalf("expected no order persisted, got %d", len(f.repo.created))
	}
}

func TestCreatePersistsSnapshotAndDecrementsStock(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	first, second := uuid.New(), uuid.New()
	f.products.stock[first] = 5
	f.products.stock[second] = 5

	got, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: f.customer.ID,
		VendorID:   f.vendor.ID,
		LineItems: []LineItemInput{
			{ProductID: first, Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: second, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
		TotalQty:      3,
		TotalAmount:   decimal.NewFromInt(250),
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", got.Status)
	}
	if len(got.OrderNumber) != 8 {
		t.Fatalf("expected 8-char order number, got %q", got.OrderNumber)
	}
	if len(got.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(got.LineItems))
	}
	if len(f.products.decrements) != 2 {
		t.Fatalf("expected 2 stock decrements, got %d", len(f.products.decrements))
	}
	f.outbox.requireEventTypes(t, enums.EventOrderCreated, enums.EventNotificationRequested)
}

func TestTransitionForwardSkipAllowed(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusPending)

	got, err := f.svc.TransitionStatus(context.Background(), order.ID, enums.OrderStatusPackaging)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != enums.OrderStatusPackaging {
		t.Fatalf("expected packaging, got %s", got.Status)
	}
	f.outbox.requireEventTypes(t, enums.EventOrderStatusChanged)
}

func TestTransitionBackwardRejected(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusPackaging)

	_, err := f.svc.TransitionStatus(context.Background(), order.ID, enums.OrderStatusConfirmed)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestTransitionFromTerminalRejected(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusDelivered)

	_, err := f.svc.TransitionStatus(context.Background(), order.ID, enums.OrderStatusCanceled)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDeliveredSettlementMath(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusOutForDelivery)

	got, err := f.svc.TransitionStatus(context.Background(), order.ID, enums.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != enums.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", got.Status)
	}
	if got.DeliveredAt == nil {
		t.Fatal("expected delivered timestamp")
	}

	// 1000 total, 10% commission = 100; pending = 1000 - 100 - 50 - 30 = 820.
	admin := f.wallets.adminInput
	if admin == nil {
		t.Fatal("expected admin wallet entry")
	}
	if !admin.CommissionEarned.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected commission 100, got %s", admin.CommissionEarned)
	}
	if !admin.PendingAmount.Equal(decimal.NewFromInt(820)) {
		t.Fatalf("expected pending 820, got %s", admin.PendingAmount)
	}
	if !admin.InHouseEarning.IsZero() || !admin.DeliveryChargeGiven.IsZero() {
		t.Fatalf("expected zero in-house fields for third-party vendor, got %+v", admin)
	}

	credit := f.wallets.creditInput
	if credit == nil {
		t.Fatal("expected seller wallet credit")
	}
	if !credit.Net.Equal(decimal.NewFromInt(820)) {
		t.Fatalf("expected net 820, got %s", credit.Net)
	}

	if f.vendors.incremented != 1 {
		t.Fatalf("expected vendor counter incremented once, got %d", f.vendors.incremented)
	}
	if len(f.products.sold) != len(order.LineItems) {
		t.Fatalf("expected sold counter per line item, got %d", len(f.products.sold))
	}
	f.outbox.requireEventTypes(t, enums.EventOrderDelivered)
}

func TestDeliveredInHouseVendorFields(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	f.vendor.Role = enums.VendorRoleInHouse
	order := f.seedOrder(enums.OrderStatusOutForDelivery)

	if _, err := f.svc.TransitionStatus(context.Background(), order.ID, enums.OrderStatusDelivered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin := f.wallets.adminInput
	if admin == nil {
		t.Fatal("expected admin wallet entry")
	}
	if !admin.InHouseEarning.Equal(order.TotalAmount) {
		t.Fatalf("expected in-house earning %s, got %s", order.TotalAmount, admin.InHouseEarning)
	}
	if !admin.DeliveryChargeGiven.Equal(order.TotalShippingCost) {
		t.Fatalf("expected delivery charge %s, got %s", order.TotalShippingCost, admin.DeliveryChargeGiven)
	}
}

func TestDeliveredWalletFailureKeepsStatus(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	f.wallets.sellerErr = errors.New("wallet store down")
	order := f.seedOrder(enums.OrderStatusOutForDelivery)

	_, err := f.svc.TransitionStatus(context.Background(), order.ID, enums.OrderStatusDelivered)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["failed_steps"] != "seller_wallet" {
		t.Fatalf("expected seller_wallet failed step, got %v", typed.Details())
	}
	// The status flip committed before the wallet writes and must stay.
	if len(f.repo.statusUpdates) == 0 || f.repo.statusUpdates[0] != enums.OrderStatusDelivered {
		t.Fatalf("expected delivered status recorded, got %v", f.repo.statusUpdates)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	f.carts.cart = &models.Cart{
		ID:         uuid.New(),
		CustomerID: f.customer.ID,
		VendorID:   f.vendor.ID,
		Status:     enums.CartStatusActive,
	}

	_, err := f.svc.Checkout(context.Background(), CheckoutInput{
		CustomerID:    f.customer.ID,
		VendorID:      f.vendor.ID,
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidOperation {
		t.Fatalf("expected invalid operation, got %v", err)
	}
}

func TestCheckoutMissingCart(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)

	_, err := f.svc.Checkout(context.Background(), CheckoutInput{
		CustomerID:    f.customer.ID,
		VendorID:      f.vendor.ID,
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckoutConvertsCart(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	productID := uuid.New()
	f.products.stock[productID] = 5
	f.carts.cart = &models.Cart{
		ID:                  uuid.New(),
		CustomerID:          f.customer.ID,
		VendorID:            f.vendor.ID,
		Status:              enums.CartStatusActive,
		TotalQty:            2,
		SubTotalAmount:      decimal.NewFromInt(200),
		TotalDiscountAmount: decimal.NewFromInt(20),
		TotalTaxAmount:      decimal.NewFromInt(10),
		TotalAmount:         decimal.NewFromInt(190),
		Items: []models.CartItem{
			{ID: uuid.New(), ProductID: productID, Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		},
	}

	got, err := f.svc.Checkout(context.Background(), CheckoutInput{
		CustomerID:    f.customer.ID,
		VendorID:      f.vendor.ID,
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(190)) {
		t.Fatalf("expected snapshot total 190, got %s", got.TotalAmount)
	}
	if !f.carts.converted {
		t.Fatal("expected cart marked converted")
	}
	f.outbox.requireEventTypes(t, enums.EventCartConverted, enums.EventOrderCreated, enums.EventNotificationRequested)
}

func TestCheckoutConcurrentCartModification(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	productID := uuid.New()
	f.products.stock[productID] = 5
	f.carts.convertFails = true
	f.carts.cart = &models.Cart{
		ID:         uuid.New(),
		CustomerID: f.customer.ID,
		VendorID:   f.vendor.ID,
		Status:     enums.CartStatusActive,
		Items: []models.CartItem{
			{ID: uuid.New(), ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}

	_, err := f.svc.Checkout(context.Background(), CheckoutInput{
		CustomerID:    f.customer.ID,
		VendorID:      f.vendor.ID,
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestTrackByNumber(t *testing.T) {
	t.Parallel()

	f := newOrderFixture(t)
	seeded := f.seedOrder(enums.OrderStatusOutForDelivery)

	got, err := f.svc.TrackByNumber(context.Background(), seeded.OrderNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != seeded.ID {
		t.Fatalf("expected order %s, got %s", seeded.ID, got.ID)
	}

	_, err = f.svc.TrackByNumber(context.Background(), "deadbeef")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func (f *orderFixture) seedOrder(status enums.OrderStatus) *models.Order {
	first, second := uuid.New(), uuid.New()
	f.products.stock[first] = 10
	f.products.stock[second] = 10
	order := &models.Order{
		ID:                uuid.New(),
		OrderNumber:       "ab12cd34",
		CustomerID:        f.customer.ID,
		VendorID:          f.vendor.ID,
		Status:            status,
		PaymentMethod:     enums.PaymentMethodCashOnDelivery,
		TotalQty:          5,
		TotalAmount:       decimal.NewFromInt(1000),
		TotalTaxAmount:    decimal.NewFromInt(50),
		TotalShippingCost: decimal.NewFromInt(30),
		LineItems: []models.OrderLineItem{
			{ID: uuid.New(), ProductID: first, Quantity: 2, UnitPrice: decimal.NewFromInt(200)},
			{ID: uuid.New(), ProductID: second, Quantity: 3, UnitPrice: decimal.NewFromInt(200)},
		},
	}
	f.repo.order = order
	return order
}

type stubOrderRepo struct {
	order         *models.Order
	created       []*models.Order
	statusUpdates []enums.OrderStatus
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	s.created = append(s.created, order)
	return nil
}

func (s *stubOrderRepo) CreateLineItems(ctx context.Context, items []models.OrderLineItem) error {
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if s.order == nil || s.order.OrderNumber != orderNumber {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, deliveredAt *time.Time) error {
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

type stubVendorRepo struct {
	vendor      *models.Vendor
	incremented int
}

func (s *stubVendorRepo) WithTx(tx *gorm.DB) vendors.Repository { return s }

func (s *stubVendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if s.vendor == nil || s.vendor.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.vendor, nil
}

func (s *stubVendorRepo) Create(ctx context.Context, vendor *models.Vendor) error { return nil }

func (s *stubVendorRepo) IncrementTotalOrders(ctx context.Context, vendorID uuid.UUID, by int) error {
	s.incremented += by
	return nil
}

type stubProductRepo struct {
	stock      map[uuid.UUID]int
	decrements []products.StockDecrement
	sold       []uuid.UUID
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	stock, ok := s.stock[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Product{ID: id, Stock: stock, Price: decimal.NewFromInt(100)}, nil
}

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) error { return nil }

func (s *stubProductRepo) BulkDecrementStock(ctx context.Context, decrements []products.StockDecrement) error {
	s.decrements = append(s.decrements, decrements...)
	return nil
}

func (s *stubProductRepo) IncrementSold(ctx context.Context, productID uuid.UUID, qty int) error {
	s.sold = append(s.sold, productID)
	return nil
}

type stubCartRepo struct {
	cart         *models.Cart
	converted    bool
	convertFails bool
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindActiveByCustomerAndVendor(ctx context.Context, customerID, vendorID uuid.UUID) (*models.Cart, error) {
	if s.cart == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}

func (s *stubCartRepo) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Cart, error) {
	return nil, nil
}

func (s *stubCartRepo) Create(ctx context.Context, c *models.Cart) error { return nil }

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCartRepo) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error { return nil }

func (s *stubCartRepo) UpdateTotals(ctx context.Context, cartID uuid.UUID, version int, totals cart.Totals) (bool, error) {
	return true, nil
}

func (s *stubCartRepo) MarkConverted(ctx context.Context, cartID uuid.UUID, version int) (bool, error) {
	if s.convertFails {
		return false, nil
	}
	s.converted = true
	return true, nil
}

type stubWalletSettler struct {
	adminInput  *wallets.AdminEntryInput
	creditInput *wallets.CreditInput
	adminErr    error
	sellerErr   error
}

func (s *stubWalletSettler) AppendAdminEntry(ctx context.Context, input wallets.AdminEntryInput) error {
	if s.adminErr != nil {
		return s.adminErr
	}
	s.adminInput = &input
	return nil
}

func (s *stubWalletSettler) CreditSellerOnDelivery(ctx context.Context, input wallets.CreditInput) error {
	if s.sellerErr != nil {
		return s.sellerErr
	}
	s.creditInput = &input
	return nil
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *stubOutbox) requireEventTypes(t *testing.T, expected ...enums.OutboxEventType) {
	t.Helper()
	seen := map[enums.OutboxEventType]bool{}
	for _, event := range s.events {
		seen[event.EventType] = true
	}
	for _, et := range expected {
		if !seen[et] {
			t.Fatalf("expected event %s, got %v", et, s.events)
		}
	}
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type customerDirectoryFunc func(ctx context.Context, id uuid.UUID) (*models.Customer, error)

func (fn customerDirectoryFunc) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return fn(ctx, id)
}

type commissionSourceFunc func(ctx context.Context) (decimal.Decimal, error)

func (fn commissionSourceFunc) GetLatestCommissionRate(ctx context.Context) (decimal.Decimal, error) {
	return fn(ctx)
}

type noopCache struct{}

func (noopCache) DeriveKey(entity cache.Entity, id string, params ...cache.Param) string {
	return string(entity) + ":" + id
}

func (noopCache) Get(ctx context.Context, key string, dest any) bool { return false }

func (noopCache) Set(ctx context.Context, key string, payload any) {}

func (noopCache) InvalidateEntity(ctx context.Context, entities ...cache.Entity) {}
