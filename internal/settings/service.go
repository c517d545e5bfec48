package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
)

// Service exposes the business-settings lookups consumed by settlement.
type Service interface {
	GetLatestCommissionRate(ctx context.Context) (decimal.Decimal, error)
}

type service struct {
	repo Repository
}

// NewService builds a settings service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// GetLatestCommissionRate returns the commission percentage of the most
// recently created settings row.
func (s *service) GetLatestCommissionRate(ctx context.Context) (decimal.Decimal, error) {
	setting, err := s.repo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "commission settings not found")
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load commission settings")
	}
	return setting.DefaultCommissionRate, nil
}
