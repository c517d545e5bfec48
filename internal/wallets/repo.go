package wallets

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
)

// PlatformTotals is the aggregation over every admin wallet ledger row.
type PlatformTotals struct {
	PendingAmount       decimal.Decimal `json:"pending_amount"`
	CommissionEarned    decimal.Decimal `json:"commission_earned"`
	TotalTaxCollected   decimal.Decimal `json:"total_tax_collected"`
	InHouseEarning      decimal.Decimal `json:"in_house_earning"`
	DeliveryChargeGiven decimal.Decimal `json:"delivery_charge_given"`
}

// Repository manages the admin wallet ledger and the per-vendor seller
// wallets. Balance mutations are conditional updates that refuse to drive a
// balance negative.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	AppendAdminEntry(ctx context.Context, entry *models.AdminWalletEntry) error
	DecrementLatestAdminPending(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (bool, error)
	SumPlatformTotals(ctx context.Context) (*PlatformTotals, error)
	ListAdminEntriesByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.AdminWalletEntry, error)

	FindSellerWalletByVendor(ctx context.Context, vendorID uuid.UUID) (*models.SellerWallet, error)
	CreateSellerWallet(ctx context.Context, wallet *models.SellerWallet) error
	CreditOnDelivery(ctx context.Context, vendorID uuid.UUID, net, commission, tax, shipping decimal.Decimal) (bool, error)
	DebitForWithdraw(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (bool, error)
	SettleApproved(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (bool, error)
	RefundRejected(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a wallet repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) AppendAdminEntry(ctx context.Context, entry *models.AdminWalletEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// DecrementLatestAdminPending reduces pending_amount on the vendor's most
// recent ledger row, mirroring an approved payout against the platform side.
func (r *repository) DecrementLatestAdminPending(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (bool, error) {
	var latest models.AdminWalletEntry
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		First(&latest).Error
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).
		Model(&models.AdminWalletEntry{}).
		Where("id = ?", latest.ID).
		Update("pending_amount", gorm.Expr("pending_amount - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SumPlatformTotals(ctx context.Context) (*PlatformTotals, error) {
	var row struct {
		PendingAmount       decimal.Decimal
		CommissionEarned    decimal.Decimal
		TotalTaxCollected   decimal.Decimal
		InHouseEarning      decimal.Decimal
		DeliveryChargeGiven decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.AdminWalletEntry{}).
		Select(`
			COALESCE(SUM(pending_amount), 0) AS pending_amount,
			COALESCE(SUM(commission_earned), 0) AS commission_earned,
			COALESCE(SUM(total_tax_collected), 0) AS total_tax_collected,
			COALESCE(SUM(in_house_earning), 0) AS in_house_earning,
			COALESCE(SUM(delivery_charge_given), 0) AS delivery_charge_given
		`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &PlatformTotals{
		PendingAmount:       row.PendingAmount,
		CommissionEarned:    row.CommissionEarned,
		TotalTaxCollected:   row.TotalTaxCollected,
		InHouseEarning:      row.InHouseEarning,
		DeliveryChargeGiven: row.DeliveryChargeGiven,
	}, nil
}

func (r *repository) ListAdminEntriesByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.AdminWalletEntry, error) {
	var entries []models.AdminWalletEntry
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) FindSellerWalletByVendor(ctx context.Context, vendorID uuid.UUID) (*models.SellerWallet, error) {
	var wallet models.SellerWallet
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) CreateSellerWallet(ctx context.Context, wallet *models.SellerWallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

// CreditOnDelivery adds the vendor's net earnings and accumulators in one
// conditional update. A false return means no wallet row exists yet.
func (r *repository) CreditOnDelivery(ctx context.Context, vendorID uuid.UUID, net, commission, tax, shipping decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerWallet{}).
		Where("vendor_id = ?", vendorID).
		Updates(map[string]any{
			"withdrawable_balance":        gorm.Expr("withdrawable_balance + ?", net),
			"total_commission_given":      gorm.Expr("total_commission_given + ?", commission),
			"total_tax_given":             gorm.Expr("total_tax_given + ?", tax),
			"total_delivery_charge_given": gorm.Expr("total_delivery_charge_given + ?", shipping),
			"version":                     gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DebitForWithdraw atomically moves amount from withdrawable to pending. The
// guard refuses the move when the balance would go negative.
func (r *repository) DebitForWithdraw(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerWallet{}).
		Where("vendor_id = ? AND withdrawable_balance >= ?", vendorID, amount).
		Updates(map[string]any{
			"withdrawable_balance": gorm.Expr("withdrawable_balance - ?", amount),
			"pending_withdraw":     gorm.Expr("pending_withdraw + ?", amount),
			"version":              gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SettleApproved finalizes an approved withdraw: pending drains into the
// already-withdrawn accumulator.
func (r *repository) SettleApproved(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerWallet{}).
		Where("vendor_id = ? AND pending_withdraw >= ?", vendorID, amount).
		Updates(map[string]any{
			"already_withdrawn": gorm.Expr("already_withdrawn + ?", amount),
			"pending_withdraw":  gorm.Expr("pending_withdraw - ?", amount),
			"version":           gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RefundRejected returns a rejected withdraw's amount to the withdrawable
// balance.
func (r *repository) RefundRejected(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerWallet{}).
		Where("vendor_id = ? AND pending_withdraw >= ?", vendorID, amount).
		Updates(map[string]any{
			"withdrawable_balance": gorm.Expr("withdrawable_balance + ?", amount),
			"pending_withdraw":     gorm.Expr("pending_withdraw - ?", amount),
			"version":              gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
