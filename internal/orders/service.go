package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/internal/cart"
	"github.com/zubairqazi/bazaarline-backend/internal/inventory"
	"github.com/zubairqazi/bazaarline-backend/internal/products"
	"github.com/zubairqazi/bazaarline-backend/internal/vendors"
	"github.com/zubairqazi/bazaarline-backend/internal/wallets"
	"github.com/zubairqazi/bazaarline-backend/pkg/cache"
	dbpkg "github.com/zubairqazi/bazaarline-backend/pkg/db"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
	"github.com/zubairqazi/bazaarline-backend/pkg/metrics"
	"github.com/zubairqazi/bazaarline-backend/pkg/outbox"
)

// orderNumberMaxAttempts bounds the collision-retry loop on the short
// generated order identifier.
const orderNumberMaxAttempts = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type customerDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type commissionSource interface {
	GetLatestCommissionRate(ctx context.Context) (decimal.Decimal, error)
}

type walletSettler interface {
	AppendAdminEntry(ctx context.Context, input wallets.AdminEntryInput) error
	CreditSellerOnDelivery(ctx context.Context, input wallets.CreditInput) error
}

type readCache interface {
	DeriveKey(entity cache.Entity, id string, params ...cache.Param) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, payload any)
	InvalidateEntity(ctx context.Context, entities ...cache.Entity)
}

// Service is the order settlement engine: creation, fulfillment transitions
// and the delivered-order money movement.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error)
	TransitionStatus(ctx context.Context, orderID uuid.UUID, newStatus enums.OrderStatus) (*models.Order, error)
	GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	TrackByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Order, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	customers customerDirectory
	vendors   vendors.Repository
	products  products.Repository
	inventory inventory.Service
	settings  commissionSource
	wallets   walletSettler
	carts     cart.Repository
	outbox    outboxPublisher
	cache     readCache
	logg      *logger.Logger
	metrics   *metrics.SettlementMetrics
}

// Deps bundles the collaborators the order service needs.
type Deps struct {
	Repo      Repository
	Tx        txRunner
	Customers customerDirectory
	Vendors   vendors.Repository
	Products  products.Repository
	Inventory inventory.Service
	Settings  commissionSource
	Wallets   walletSettler
	Carts     cart.Repository
	Outbox    outboxPublisher
	Cache     readCache
	Logger    *logger.Logger
	Metrics   *metrics.SettlementMetrics
}

// NewService builds the order settlement engine with the required dependencies.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Customers == nil {
		return nil, fmt.Errorf("customer directory required")
	}
	if deps.Vendors == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if deps.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if deps.Settings == nil {
		return nil, fmt.Errorf("settings service required")
	}
	if deps.Wallets == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if deps.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if deps.Cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      deps.Repo,
		tx:        deps.Tx,
		customers: deps.Customers,
		vendors:   deps.Vendors,
		products:  deps.Products,
		inventory: deps.Inventory,
		settings:  deps.Settings,
		wallets:   deps.Wallets,
		carts:     deps.Carts,
		outbox:    deps.Outbox,
		cache:     deps.Cache,
		logg:      deps.Logger,
		metrics:   deps.Metrics,
	}, nil
}

// Create persists an order snapshot with status pending, decrements stock for
// every line item in the same transaction and queues the notification events.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if len(input.LineItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	for _, item := range input.LineItems {
		if item.ProductID == uuid.Nil || item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line items need a product and a positive quantity")
		}
	}

	customer, err := s.loadCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	vendor, err := s.loadVendor(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}
	for _, item := range input.LineItems {
		orderable, err := s.inventory.IsOrderable(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !orderable {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "product is out of stock").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.persistOrder(ctx, tx, input, customer)
		if err != nil {
			return err
		}
		if err := s.decrementStock(ctx, tx, order.LineItems); err != nil {
			return err
		}
		if err := s.emitOrderCreated(ctx, tx, order, vendor); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateEntity(ctx, cache.EntityProduct, cache.EntityOrder, cache.EntityVendor, cache.EntityTransaction)
	return created, nil
}

func (s *service) loadCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) loadVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func (s *service) decrementStock(ctx context.Context, tx *gorm.DB, items []models.OrderLineItem) error {
	decrements := make([]products.StockDecrement, 0, len(items))
	for _, item := range items {
		decrements = append(decrements, products.StockDecrement{ProductID: item.ProductID, Qty: item.Quantity})
	}
	return s.inventory.BulkDecrementStock(ctx, tx, decrements)
}

func (s *service) persistOrder(ctx context.Context, tx *gorm.DB, input CreateInput, customer *models.Customer) (*models.Order, error) {
	repo := s.repo.WithTx(tx)

	var order *models.Order
	for attempt := 0; attempt < orderNumberMaxAttempts; attempt++ {
		candidate := &models.Order{
			ID:                uuid.New(),
			OrderNumber:       newOrderNumber(),
			CustomerID:        input.CustomerID,
			VendorID:          input.VendorID,
			Status:            enums.OrderStatusPending,
			PaymentMethod:     input.PaymentMethod,
			PaymentStatus:     enums.PaymentStatusUnpaid,
			OrderNote:         input.OrderNote,
			TotalQty:          input.TotalQty,
			TotalAmount:       input.TotalAmount,
			TotalDiscount:     input.TotalDiscount,
			TotalTaxAmount:    input.TotalTaxAmount,
			TotalShippingCost: input.TotalShippingCost,
			ShippingAddress:   customer.ShippingAddress,
			BillingAddress:    customer.ShippingAddress,
		}
		err := repo.Create(ctx, candidate)
		if err == nil {
			order = candidate
			break
		}
		if dbpkg.IsUniqueViolation(err, "uq_orders_order_number") {
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "could not allocate a unique order number")
	}

	items := make([]models.OrderLineItem, 0, len(input.LineItems))
	for _, item := range input.LineItems {
		items = append(items, models.OrderLineItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if err := repo.CreateLineItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist line items")
	}
	order.LineItems = items
	return order, nil
}

func (s *service) emitOrderCreated(ctx context.Context, tx *gorm.DB, order *models.Order, vendor *models.Vendor) error {
	created := outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Data: OrderCreatedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			CustomerID:  order.CustomerID,
			VendorID:    order.VendorID,
			TotalAmount: order.TotalAmount,
			TotalQty:    order.TotalQty,
		},
	}
	if err := s.outbox.Emit(ctx, tx, created); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue order created event")
	}

	// Customer and vendor notifications ride the outbox; a delivery failure
	// never fails order creation.
	notify := outbox.DomainEvent{
		EventType:     enums.EventNotificationRequested,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Data: map[string]any{
			"kind":         "order_confirmation",
			"order_number": order.OrderNumber,
			"customer_id":  order.CustomerID,
			"vendor_id":    vendor.ID,
		},
	}
	if err := s.outbox.Emit(ctx, tx, notify); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue notification event")
	}
	return nil
}

// Checkout snapshots the customer's active cart into an order and marks the
// cart converted, all inside one transaction.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	customer, err := s.loadCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	vendor, err := s.loadVendor(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		activeCart, err := carts.FindActiveByCustomerAndVendor(ctx, input.CustomerID, input.VendorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(activeCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "cart is empty")
		}

		orderInput := CreateInput{
			CustomerID:     input.CustomerID,
			VendorID:       input.VendorID,
			TotalQty:       activeCart.TotalQty,
			TotalAmount:    activeCart.TotalAmount,
			TotalDiscount:  activeCart.TotalDiscountAmount,
			TotalTaxAmount: activeCart.TotalTaxAmount,
			PaymentMethod:  input.PaymentMethod,
			OrderNote:      input.OrderNote,
		}
		for _, item := range activeCart.Items {
			orderInput.LineItems = append(orderInput.LineItems, LineItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		order, err := s.persistOrder(ctx, tx, orderInput, customer)
		if err != nil {
			return err
		}
		if err := s.decrementStock(ctx, tx, order.LineItems); err != nil {
			return err
		}

		ok, err := carts.MarkConverted(ctx, activeCart.ID, activeCart.Version)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "convert cart")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart was modified concurrently")
		}

		converted := outbox.DomainEvent{
			EventType:     enums.EventCartConverted,
			AggregateType: enums.AggregateCart,
			AggregateID:   activeCart.ID,
			Version:       1,
			Data:          CartConvertedEvent{CartID: activeCart.ID, OrderID: order.ID},
		}
		if err := s.outbox.Emit(ctx, tx, converted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue cart converted event")
		}
		if err := s.emitOrderCreated(ctx, tx, order, vendor); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateEntity(ctx, cache.EntityCart, cache.EntityProduct, cache.EntityOrder, cache.EntityVendor, cache.EntityTransaction)
	return created, nil
}

// TransitionStatus applies a fulfillment transition. Terminal states admit no
// further transition; moving to delivered triggers settlement.
func (s *service) TransitionStatus(ctx context.Context, orderID uuid.UUID, newStatus enums.OrderStatus) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !newStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !order.Status.CanTransitionTo(newStatus) {
		msg := fmt.Sprintf("cannot transition order from %s to %s", order.Status, newStatus)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, msg).
			WithDetails(map[string]any{"from": order.Status, "to": newStatus})
	}

	if newStatus != enums.OrderStatusDelivered {
		if err := s.applyStatus(ctx, order, newStatus); err != nil {
			return nil, err
		}
		s.cache.InvalidateEntity(ctx, cache.EntityOrder)
		return order, nil
	}

	started := time.Now()
	if err := s.settleDelivered(ctx, order); err != nil {
		s.metrics.IncSettlement("order_delivered", "failure")
		return nil, err
	}
	s.metrics.IncSettlement("order_delivered", "success")
	s.metrics.ObserveDuration("order_delivered", time.Since(started))

	s.cache.InvalidateEntity(ctx, cache.EntityOrder, cache.EntityProduct, cache.EntityVendor,
		cache.EntitySellerWallet, cache.EntityAdminWallet, cache.EntityTransaction)
	return order, nil
}

func (s *service) applyStatus(ctx context.Context, order *models.Order, newStatus enums.OrderStatus) error {
	from := order.Status
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, order.ID, newStatus, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = newStatus

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: OrderStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				VendorID:    order.VendorID,
				FromStatus:  from,
				ToStatus:    newStatus,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue status changed event")
		}
		return nil
	})
}

// settleDelivered runs the delivered-order settlement. Commission lookup and
// vendor resolution happen before any mutation, then the status flip, sold
// counters and vendor counter commit together. The two wallet writes run
// concurrently afterwards; if one fails the status change stays and the error
// names the wallet that did not apply.
func (s *service) settleDelivered(ctx context.Context, order *models.Order) error {
	rate, err := s.settings.GetLatestCommissionRate(ctx)
	if err != nil {
		return err
	}
	vendor, err := s.loadVendor(ctx, order.VendorID)
	if err != nil {
		return err
	}

	commission := order.TotalAmount.Mul(rate).Div(decimal.NewFromInt(100))
	pending := order.TotalAmount.
		Sub(commission).
		Sub(order.TotalTaxAmount).
		Sub(order.TotalShippingCost)

	now := time.Now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, order.ID, enums.OrderStatusDelivered, &now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		catalog := s.products.WithTx(tx)
		for _, item := range order.LineItems {
			if err := catalog.IncrementSold(ctx, item.ProductID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment sold counter")
			}
		}

		// Once per order, regardless of the number of line items.
		if err := s.vendors.WithTx(tx).IncrementTotalOrders(ctx, order.VendorID, 1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment vendor orders")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderDelivered,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: SettlementRecordedEvent{
				OrderID:       order.ID,
				VendorID:      order.VendorID,
				Commission:    commission,
				PendingAmount: pending,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue delivered event")
		}
		return nil
	})
	if err != nil {
		return err
	}
	order.Status = enums.OrderStatusDelivered
	order.DeliveredAt = &now

	inHouse := decimal.Zero
	deliveryGiven := decimal.Zero
	if vendor.Role == enums.VendorRoleInHouse {
		inHouse = order.TotalAmount
		deliveryGiven = order.TotalShippingCost
	}

	var wg sync.WaitGroup
	var adminErr, sellerErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		adminErr = s.wallets.AppendAdminEntry(ctx, wallets.AdminEntryInput{
			VendorID:            order.VendorID,
			OrderID:             order.ID,
			PendingAmount:       pending,
			CommissionEarned:    commission,
			TotalTaxCollected:   order.TotalTaxAmount,
			InHouseEarning:      inHouse,
			DeliveryChargeGiven: deliveryGiven,
		})
	}()
	go func() {
		defer wg.Done()
		sellerErr = s.wallets.CreditSellerOnDelivery(ctx, wallets.CreditInput{
			VendorID:   order.VendorID,
			Net:        pending,
			Commission: commission,
			Tax:        order.TotalTaxAmount,
			Shipping:   order.TotalShippingCost,
		})
	}()
	wg.Wait()

	if combined := multierr.Combine(adminErr, sellerErr); combined != nil {
		steps := make([]string, 0, 2)
		if adminErr != nil {
			steps = append(steps, "admin_wallet")
			s.metrics.IncWalletFailure("admin_wallet")
		}
		if sellerErr != nil {
			steps = append(steps, "seller_wallet")
			s.metrics.IncWalletFailure("seller_wallet")
		}
		logCtx := s.logg.WithOrderID(s.logg.WithVendorID(ctx, order.VendorID.String()), order.ID.String())
		s.logg.Error(logCtx, "order delivered but wallet settlement partially applied", combined)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "settlement partially applied").
			WithDetails(map[string]any{"failed_steps": strings.Join(steps, ",")})
	}
	return nil
}

// GetByID returns one order through the read cache.
func (s *service) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	key := s.cache.DeriveKey(cache.EntityOrder, orderID.String())
	var cached models.Order
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	s.cache.Set(ctx, key, order)
	return order, nil
}

// TrackByNumber resolves an order by its public order number through the read
// cache.
func (s *service) TrackByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	key := s.cache.DeriveKey(cache.EntityOrder, "", cache.Param{Key: "number", Value: orderNumber})
	var cached models.Order
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	s.cache.Set(ctx, key, order)
	return order, nil
}

// ListByCustomer returns a customer's orders through the read cache.
func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	key := s.cache.DeriveKey(cache.EntityOrder, "", cache.Param{Key: "customer", Value: customerID.String()})
	var cached []models.Order
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	s.cache.Set(ctx, key, orders)
	return orders, nil
}

// ListByVendor returns a vendor's orders through the read cache.
func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Order, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	key := s.cache.DeriveKey(cache.EntityOrder, "", cache.Param{Key: "vendor", Value: vendorID.String()})
	var cached []models.Order
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	orders, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	s.cache.Set(ctx, key, orders)
	return orders, nil
}

// newOrderNumber derives the short order identifier from a fresh UUID.
func newOrderNumber() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
