package withdrawals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
)

// Repository manages persistence for withdraw requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Withdrawal, error)
	ListByStatus(ctx context.Context, status enums.WithdrawStatus) ([]models.Withdrawal, error)
	UpdateResolution(ctx context.Context, id uuid.UUID, status enums.WithdrawStatus, note, receiptRef *string, resolvedAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a withdrawals repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	return r.db.WithContext(ctx).Create(withdrawal).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&withdrawal).Error; err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.WithdrawStatus) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (r *repository) UpdateResolution(ctx context.Context, id uuid.UUID, status enums.WithdrawStatus, note, receiptRef *string, resolvedAt time.Time) error {
	updates := map[string]any{
		"status":      status,
		"resolved_at": resolvedAt,
	}
	if note != nil {
		updates["note"] = *note
	}
	if receiptRef != nil {
		updates["receipt_ref"] = *receiptRef
	}
	return r.db.WithContext(ctx).
		Model(&models.Withdrawal{}).
		Where("id = ?", id).
		Updates(updates).Error
}
