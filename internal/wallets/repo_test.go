package wallets

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
)

func setupWalletsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sellerWallets := `
CREATE TABLE IF NOT EXISTS seller_wallets (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL UNIQUE,
  withdrawable_balance NUMERIC NOT NULL DEFAULT 0,
  pending_withdraw NUMERIC NOT NULL DEFAULT 0,
  already_withdrawn NUMERIC NOT NULL DEFAULT 0,
  total_commission_given NUMERIC NOT NULL DEFAULT 0,
  total_tax_given NUMERIC NOT NULL DEFAULT 0,
  total_delivery_charge_given NUMERIC NOT NULL DEFAULT 0,
  collected_cash NUMERIC NOT NULL DEFAULT 0,
  version INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	adminEntries := `
CREATE TABLE IF NOT EXISTS admin_wallet_entries (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  order_id TEXT UNIQUE,
  pending_amount NUMERIC NOT NULL DEFAULT 0,
  commission_earned NUMERIC NOT NULL DEFAULT 0,
  total_tax_collected NUMERIC NOT NULL DEFAULT 0,
  in_house_earning NUMERIC NOT NULL DEFAULT 0,
  delivery_charge_given NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME
);`

	require.NoError(t, db.Exec(sellerWallets).Error)
	require.NoError(t, db.Exec(adminEntries).Error)
	return db
}

func seedSellerWallet(t *testing.T, db *gorm.DB, withdrawable, pending int64) *models.SellerWallet {
	t.Helper()

	wallet := &models.SellerWallet{
		ID:                  uuid.New(),
		VendorID:            uuid.New(),
		WithdrawableBalance: decimal.NewFromInt(withdrawable),
		PendingWithdraw:     decimal.NewFromInt(pending),
	}
	require.NoError(t, db.Create(wallet).Error)
	return wallet
}

func TestDebitForWithdrawMovesBalance(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)
	wallet := seedSellerWallet(t, db, 820, 0)

	ok, err := repo.DebitForWithdraw(context.Background(), wallet.VendorID, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.FindSellerWalletByVendor(context.Background(), wallet.VendorID)
	require.NoError(t, err)
	assert.True(t, got.WithdrawableBalance.Equal(decimal.NewFromInt(320)), "balance %s", got.WithdrawableBalance)
	assert.True(t, got.PendingWithdraw.Equal(decimal.NewFromInt(500)), "pending %s", got.PendingWithdraw)
	assert.Equal(t, 1, got.Version)
}

func TestDebitForWithdrawRefusesOverdraw(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)
	wallet := seedSellerWallet(t, db, 400, 0)

	ok, err := repo.DebitForWithdraw(context.Background(), wallet.VendorID, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.False(t, ok)

	got, err := repo.FindSellerWalletByVendor(context.Background(), wallet.VendorID)
	require.NoError(t, err)
	assert.True(t, got.WithdrawableBalance.Equal(decimal.NewFromInt(400)), "balance %s", got.WithdrawableBalance)
	assert.True(t, got.PendingWithdraw.IsZero(), "pending %s", got.PendingWithdraw)
}

func TestSettleApprovedDrainsPending(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)
	wallet := seedSellerWallet(t, db, 0, 500)

	ok, err := repo.SettleApproved(context.Background(), wallet.VendorID, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.FindSellerWalletByVendor(context.Background(), wallet.VendorID)
	require.NoError(t, err)
	assert.True(t, got.PendingWithdraw.IsZero(), "pending %s", got.PendingWithdraw)
	assert.True(t, got.AlreadyWithdrawn.Equal(decimal.NewFromInt(500)), "withdrawn %s", got.AlreadyWithdrawn)
}

func TestSettleApprovedGuardsPending(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)
	wallet := seedSellerWallet(t, db, 0, 100)

	ok, err := repo.SettleApproved(context.Background(), wallet.VendorID, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRefundRejectedRestoresBalance(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)
	wallet := seedSellerWallet(t, db, 320, 500)

	ok, err := repo.RefundRejected(context.Background(), wallet.VendorID, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.FindSellerWalletByVendor(context.Background(), wallet.VendorID)
	require.NoError(t, err)
	assert.True(t, got.WithdrawableBalance.Equal(decimal.NewFromInt(820)), "balance %s", got.WithdrawableBalance)
	assert.True(t, got.PendingWithdraw.IsZero(), "pending %s", got.PendingWithdraw)
}

func TestCreditOnDeliveryRequiresWallet(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)

	ok, err := repo.CreditOnDelivery(context.Background(), uuid.New(), decimal.NewFromInt(820), decimal.NewFromInt(100), decimal.NewFromInt(50), decimal.NewFromInt(30))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCreditOnDeliveryAccumulates(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)
	wallet := seedSellerWallet(t, db, 100, 0)

	ok, err := repo.CreditOnDelivery(context.Background(), wallet.VendorID, decimal.NewFromInt(820), decimal.NewFromInt(100), decimal.NewFromInt(50), decimal.NewFromInt(30))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.FindSellerWalletByVendor(context.Background(), wallet.VendorID)
	require.NoError(t, err)
	assert.True(t, got.WithdrawableBalance.Equal(decimal.NewFromInt(920)), "balance %s", got.WithdrawableBalance)
	assert.True(t, got.TotalCommissionGiven.Equal(decimal.NewFromInt(100)), "commission %s", got.TotalCommissionGiven)
	assert.True(t, got.TotalTaxGiven.Equal(decimal.NewFromInt(50)), "tax %s", got.TotalTaxGiven)
	assert.True(t, got.TotalDeliveryChargeGiven.Equal(decimal.NewFromInt(30)), "shipping %s", got.TotalDeliveryChargeGiven)
}

func TestFindSellerWalletByVendorMissing(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindSellerWalletByVendor(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func seedAdminEntry(t *testing.T, db *gorm.DB, vendorID uuid.UUID, pending int64, createdAt time.Time) *models.AdminWalletEntry {
	t.Helper()

	orderID := uuid.New()
	entry := &models.AdminWalletEntry{
		ID:            uuid.New(),
		VendorID:      vendorID,
		OrderID:       &orderID,
		PendingAmount: decimal.NewFromInt(pending),
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestDecrementLatestAdminPendingTargetsNewestEntry(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)

	vendorID := uuid.New()
	older := seedAdminEntry(t, db, vendorID, 300, time.Now().Add(-time.Hour))
	newer := seedAdminEntry(t, db, vendorID, 820, time.Now())

	ok, err := repo.DecrementLatestAdminPending(context.Background(), vendorID, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.True(t, ok)

	entries, err := repo.ListAdminEntriesByVendor(context.Background(), vendorID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, entry := range entries {
		switch entry.ID {
		case newer.ID:
			assert.True(t, entry.PendingAmount.Equal(decimal.NewFromInt(320)), "newer pending %s", entry.PendingAmount)
		case older.ID:
			assert.True(t, entry.PendingAmount.Equal(decimal.NewFromInt(300)), "older pending %s", entry.PendingAmount)
		}
	}
}

func TestDecrementLatestAdminPendingNoEntry(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.DecrementLatestAdminPending(context.Background(), uuid.New(), decimal.NewFromInt(100))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAppendAdminEntryRejectsDuplicateOrder(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)

	orderID := uuid.New()
	first := &models.AdminWalletEntry{ID: uuid.New(), VendorID: uuid.New(), OrderID: &orderID}
	require.NoError(t, repo.AppendAdminEntry(context.Background(), first))

	dup := &models.AdminWalletEntry{ID: uuid.New(), VendorID: uuid.New(), OrderID: &orderID}
	require.Error(t, repo.AppendAdminEntry(context.Background(), dup))
}

func TestSumPlatformTotals(t *testing.T) {
	db := setupWalletsTestDB(t)
	repo := NewRepository(db)

	before, err := repo.SumPlatformTotals(context.Background())
	require.NoError(t, err)

	vendorID := uuid.New()
	seedAdminEntry(t, db, vendorID, 820, time.Now().Add(-time.Minute))
	seedAdminEntry(t, db, vendorID, 180, time.Now())

	after, err := repo.SumPlatformTotals(context.Background())
	require.NoError(t, err)
	delta := after.PendingAmount.Sub(before.PendingAmount)
	assert.True(t, delta.Equal(decimal.NewFromInt(1000)), "pending delta %s", delta)
}
