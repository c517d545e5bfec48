package withdrawals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/internal/wallets"
	"github.com/zubairqazi/bazaarline-backend/pkg/cache"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
	"github.com/zubairqazi/bazaarline-backend/pkg/metrics"
	"github.com/zubairqazi/bazaarline-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type readCache interface {
	DeriveKey(entity cache.Entity, id string, params ...cache.Param) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, payload any)
	InvalidateEntity(ctx context.Context, entities ...cache.Entity)
}

// Service owns the withdraw settlement lifecycle: request, approve, reject.
// Wallet movements and the request row always commit in one transaction, with
// the wallet write applied first so a guard failure aborts before any status
// change is visible.
type Service interface {
	Request(ctx context.Context, input RequestInput) (*models.Withdrawal, error)
	Resolve(ctx context.Context, input ResolveInput) (*models.Withdrawal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Withdrawal, error)
	ListPending(ctx context.Context) ([]models.Withdrawal, error)
}

type service struct {
	repo        Repository
	wallets     wallets.Repository
	tx          txRunner
	outbox      outboxPublisher
	cache       readCache
	logg        *logger.Logger
	metrics     *metrics.SettlementMetrics
	minWithdraw decimal.Decimal
}

// NewService builds the withdraw settlement service.
func NewService(repo Repository, walletRepo wallets.Repository, tx txRunner, ob outboxPublisher, cacheStore readCache, logg *logger.Logger, m *metrics.SettlementMetrics, minWithdraw decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("withdrawals repository required")
	}
	if walletRepo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if cacheStore == nil {
		return nil, fmt.Errorf("cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		wallets:     walletRepo,
		tx:          tx,
		outbox:      ob,
		cache:       cacheStore,
		logg:        logg,
		metrics:     m,
		minWithdraw: minWithdraw,
	}, nil
}

// Request files a pending withdraw and moves the amount from withdrawable to
// pending in the same transaction. The balance guard rejects over-draws
// without touching the wallet.
func (s *service) Request(ctx context.Context, input RequestInput) (*models.Withdrawal, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "withdraw amount must be positive")
	}
	if input.Amount.LessThan(s.minWithdraw) {
		msg := fmt.Sprintf("withdraw amount must be at least %s", s.minWithdraw.String())
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msg).
			WithDetails(map[string]any{"minimum": s.minWithdraw})
	}

	var created *models.Withdrawal
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		walletRepo := s.wallets.WithTx(tx)
		if _, err := walletRepo.FindSellerWalletByVendor(ctx, input.VendorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seller wallet not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller wallet")
		}

		ok, err := walletRepo.DebitForWithdraw(ctx, input.VendorID, input.Amount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit seller wallet").
				WithDetails(map[string]any{"step": "seller_wallet"})
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "withdraw amount exceeds withdrawable balance")
		}

		withdrawal := &models.Withdrawal{
			ID:       uuid.New(),
			VendorID: input.VendorID,
			Amount:   input.Amount,
			Status:   enums.WithdrawStatusPending,
			Note:     input.Note,
		}
		if err := s.repo.WithTx(tx).Create(ctx, withdrawal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist withdraw request")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventWithdrawRequested,
			AggregateType: enums.AggregateWithdrawal,
			AggregateID:   withdrawal.ID,
			Version:       1,
			Data: WithdrawRequestedEvent{
				WithdrawalID: withdrawal.ID,
				VendorID:     withdrawal.VendorID,
				Amount:       withdrawal.Amount,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue withdraw requested event")
		}
		created = withdrawal
		return nil
	})
	if err != nil {
		s.metrics.IncSettlement("withdraw_request", "failure")
		return nil, err
	}
	s.metrics.IncSettlement("withdraw_request", "success")

	s.cache.InvalidateEntity(ctx, cache.EntityWithdraw, cache.EntitySellerWallet)
	return created, nil
}

// Resolve applies the admin decision to a pending request. Approved requests
// drain pending into already-withdrawn and mirror the payout against the
// platform ledger; rejected requests refund the withdrawable balance. Either
// way the wallet moves commit before the status flip in the same transaction.
func (s *service) Resolve(ctx context.Context, input ResolveInput) (*models.Withdrawal, error) {
	if input.WithdrawalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "withdrawal id required")
	}
	if input.Status != enums.WithdrawStatusApproved && input.Status != enums.WithdrawStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resolution must be approved or rejected")
	}

	withdrawal, err := s.repo.FindByID(ctx, input.WithdrawalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "withdraw request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load withdraw request")
	}
	if withdrawal.Status.IsTerminal() {
		msg := fmt.Sprintf("withdraw request already %s", withdrawal.Status)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, msg).
			WithDetails(map[string]any{"status": withdrawal.Status})
	}
	if !withdrawal.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "withdraw request has a non-positive amount")
	}

	now := time.Now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		walletRepo := s.wallets.WithTx(tx)

		if input.Status == enums.WithdrawStatusApproved {
			ok, err := walletRepo.SettleApproved(ctx, withdrawal.VendorID, withdrawal.Amount)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle seller wallet").
					WithDetails(map[string]any{"step": "seller_wallet"})
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeDependency, "pending withdraw balance does not cover the request").
					WithDetails(map[string]any{"step": "seller_wallet"})
			}

			ok, err = walletRepo.DecrementLatestAdminPending(ctx, withdrawal.VendorID, withdrawal.Amount)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeDependency, "no platform ledger entry for vendor").
						WithDetails(map[string]any{"step": "admin_wallet"})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update platform ledger").
					WithDetails(map[string]any{"step": "admin_wallet"})
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeDependency, "platform ledger update did not apply").
					WithDetails(map[string]any{"step": "admin_wallet"})
			}
		} else {
			ok, err := walletRepo.RefundRejected(ctx, withdrawal.VendorID, withdrawal.Amount)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund seller wallet").
					WithDetails(map[string]any{"step": "seller_wallet"})
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeDependency, "pending withdraw balance does not cover the refund").
					WithDetails(map[string]any{"step": "seller_wallet"})
			}
		}

		if err := s.repo.WithTx(tx).UpdateResolution(ctx, withdrawal.ID, input.Status, input.Note, input.ReceiptRef, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update withdraw status")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventWithdrawResolved,
			AggregateType: enums.AggregateWithdrawal,
			AggregateID:   withdrawal.ID,
			Version:       1,
			Data: WithdrawResolvedEvent{
				WithdrawalID: withdrawal.ID,
				VendorID:     withdrawal.VendorID,
				Amount:       withdrawal.Amount,
				Status:       input.Status,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue withdraw resolved event")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncSettlement("withdraw_resolve", "failure")
		if typed := pkgerrors.As(err); typed != nil {
			if details, ok := typed.Details().(map[string]any); ok {
				if step, ok := details["step"].(string); ok {
					s.metrics.IncWalletFailure(step)
				}
			}
		}
		return nil, err
	}
	s.metrics.IncSettlement("withdraw_resolve", "success")

	withdrawal.Status = input.Status
	withdrawal.ResolvedAt = &now
	if input.Note != nil {
		withdrawal.Note = input.Note
	}
	if input.ReceiptRef != nil {
		withdrawal.ReceiptRef = input.ReceiptRef
	}

	s.cache.InvalidateEntity(ctx, cache.EntityWithdraw, cache.EntitySellerWallet, cache.EntityAdminWallet, cache.EntityTransaction)
	return withdrawal, nil
}

// GetByID returns one withdraw request through the read cache.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "withdrawal id required")
	}

	key := s.cache.DeriveKey(cache.EntityWithdraw, id.String())
	var cached models.Withdrawal
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	withdrawal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "withdraw request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load withdraw request")
	}
	s.cache.Set(ctx, key, withdrawal)
	return withdrawal, nil
}

// ListByVendor returns a vendor's withdraw history through the read cache.
func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Withdrawal, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	key := s.cache.DeriveKey(cache.EntityWithdraw, "", cache.Param{Key: "vendor", Value: vendorID.String()})
	var cached []models.Withdrawal
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	withdrawals, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list withdraw requests")
	}
	s.cache.Set(ctx, key, withdrawals)
	return withdrawals, nil
}

// ListPending returns the admin review queue, oldest first.
func (s *service) ListPending(ctx context.Context) ([]models.Withdrawal, error) {
	withdrawals, err := s.repo.ListByStatus(ctx, enums.WithdrawStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list withdraw requests")
	}
	return withdrawals, nil
}
