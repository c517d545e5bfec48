package wallets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/pkg/cache"
	dbpkg "github.com/zubairqazi/bazaarline-backend/pkg/db"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

type readCache interface {
	DeriveKey(entity cache.Entity, id string, params ...cache.Param) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, payload any)
	InvalidateEntity(ctx context.Context, entities ...cache.Entity)
}

// AdminEntryInput carries one settlement ledger row.
type AdminEntryInput struct {
	VendorID            uuid.UUID
	OrderID             uuid.UUID
	PendingAmount       decimal.Decimal
	CommissionEarned    decimal.Decimal
	TotalTaxCollected   decimal.Decimal
	InHouseEarning      decimal.Decimal
	DeliveryChargeGiven decimal.Decimal
}

// CreditInput carries the seller-side half of an order settlement.
type CreditInput struct {
	VendorID   uuid.UUID
	Net        decimal.Decimal
	Commission decimal.Decimal
	Tax        decimal.Decimal
	Shipping   decimal.Decimal
}

// Service owns every wallet movement. Mutations identify themselves in error
// details so a partially applied settlement names the wallet that failed.
type Service interface {
	AppendAdminEntry(ctx context.Context, input AdminEntryInput) error
	CreditSellerOnDelivery(ctx context.Context, input CreditInput) error
	GetSellerWallet(ctx context.Context, vendorID uuid.UUID) (*models.SellerWallet, error)
	GetPlatformTotals(ctx context.Context) (*PlatformTotals, error)
}

type service struct {
	repo  Repository
	cache readCache
	logg  *logger.Logger
}

// NewService builds a wallet service with the required dependencies.
func NewService(repo Repository, cacheStore readCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if cacheStore == nil {
		return nil, fmt.Errorf("cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, cache: cacheStore, logg: logg}, nil
}

// AppendAdminEntry writes one ledger row for a delivered order. A second
// append for the same order hits the unique constraint and is treated as
// already settled.
func (s *service) AppendAdminEntry(ctx context.Context, input AdminEntryInput) error {
	if input.VendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	orderID := input.OrderID
	entry := models.AdminWalletEntry{
		ID:                  uuid.New(),
		VendorID:            input.VendorID,
		OrderID:             &orderID,
		PendingAmount:       input.PendingAmount,
		CommissionEarned:    input.CommissionEarned,
		TotalTaxCollected:   input.TotalTaxCollected,
		InHouseEarning:      input.InHouseEarning,
		DeliveryChargeGiven: input.DeliveryChargeGiven,
	}
	if err := s.repo.AppendAdminEntry(ctx, &entry); err != nil {
		if dbpkg.IsUniqueViolation(err, "uq_admin_wallet_entries_order") {
			s.logg.Warn(s.logg.WithOrderID(ctx, orderID.String()), "admin wallet entry already recorded for order")
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append admin wallet entry").
			WithDetails(map[string]any{"step": "admin_wallet"})
	}
	s.cache.InvalidateEntity(ctx, cache.EntityAdminWallet, cache.EntityTransaction)
	return nil
}

// CreditSellerOnDelivery adds the vendor's net earnings to their wallet,
// creating the wallet row on first settlement.
func (s *service) CreditSellerOnDelivery(ctx context.Context, input CreditInput) error {
	if input.VendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	ok, err := s.repo.CreditOnDelivery(ctx, input.VendorID, input.Net, input.Commission, input.Tax, input.Shipping)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit seller wallet").
			WithDetails(map[string]any{"step": "seller_wallet"})
	}
	if !ok {
		wallet := models.SellerWallet{ID: uuid.New(), VendorID: input.VendorID}
		if err := s.repo.CreateSellerWallet(ctx, &wallet); err != nil && !dbpkg.IsUniqueViolation(err, "uq_seller_wallets_vendor") {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller wallet").
				WithDetails(map[string]any{"step": "seller_wallet"})
		}
		ok, err = s.repo.CreditOnDelivery(ctx, input.VendorID, input.Net, input.Commission, input.Tax, input.Shipping)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit seller wallet").
				WithDetails(map[string]any{"step": "seller_wallet"})
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeDependency, "seller wallet credit did not apply").
				WithDetails(map[string]any{"step": "seller_wallet"})
		}
	}

	s.cache.InvalidateEntity(ctx, cache.EntitySellerWallet)
	return nil
}

// GetSellerWallet returns the vendor's wallet through the read cache.
func (s *service) GetSellerWallet(ctx context.Context, vendorID uuid.UUID) (*models.SellerWallet, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	key := s.cache.DeriveKey(cache.EntitySellerWallet, vendorID.String())
	var cached models.SellerWallet
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	wallet, err := s.repo.FindSellerWalletByVendor(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller wallet")
	}
	s.cache.Set(ctx, key, wallet)
	return wallet, nil
}

// GetPlatformTotals aggregates the admin wallet ledger through the read cache.
func (s *service) GetPlatformTotals(ctx context.Context) (*PlatformTotals, error) {
	key := s.cache.DeriveKey(cache.EntityAdminWallet, "totals")
	var cached PlatformTotals
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	totals, err := s.repo.SumPlatformTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate admin wallet")
	}
	s.cache.Set(ctx, key, totals)
	return totals, nil
}
