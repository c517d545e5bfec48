package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
)

// Repository reads the platform business settings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindLatest(ctx context.Context) (*models.BusinessSetting, error)
	Create(ctx context.Context, setting *models.BusinessSetting) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindLatest returns the most recently created settings row; that row is the
// active one.
func (r *repository) FindLatest(ctx context.Context) (*models.BusinessSetting, error) {
	var setting models.BusinessSetting
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) Create(ctx context.Context, setting *models.BusinessSetting) error {
	return r.db.WithContext(ctx).Create(setting).Error
}
