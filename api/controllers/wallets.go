package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/api/responses"
	walletsvc "github.com/zubairqazi/bazaarline-backend/internal/wallets"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

// SellerWalletGet returns the vendor's balance snapshot.
func SellerWalletGet(svc walletsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		vendorID, err := uuid.Parse(chi.URLParam(r, "vendorID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
			return
		}

		record, err := svc.GetSellerWallet(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSellerWalletResponse(record))
	}
}

// AdminWalletTotals returns the platform-side aggregation over the settlement
// ledger.
func AdminWalletTotals(svc walletsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		totals, err := svc.GetPlatformTotals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, totals)
	}
}

type sellerWalletResponse struct {
	ID                       uuid.UUID       `json:"id"`
	VendorID                 uuid.UUID       `json:"vendor_id"`
	WithdrawableBalance      decimal.Decimal `json:"withdrawable_balance"`
	PendingWithdraw          decimal.Decimal `json:"pending_withdraw"`
	AlreadyWithdrawn         decimal.Decimal `json:"already_withdrawn"`
	TotalCommissionGiven     decimal.Decimal `json:"total_commission_given"`
	TotalTaxGiven            decimal.Decimal `json:"total_tax_given"`
	TotalDeliveryChargeGiven decimal.Decimal `json:"total_delivery_charge_given"`
	CollectedCash            decimal.Decimal `json:"collected_cash"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

func newSellerWalletResponse(record *models.SellerWallet) sellerWalletResponse {
	return sellerWalletResponse{
		ID:                       record.ID,
		VendorID:                 record.VendorID,
		WithdrawableBalance:      record.WithdrawableBalance,
		PendingWithdraw:          record.PendingWithdraw,
		AlreadyWithdrawn:         record.AlreadyWithdrawn,
		TotalCommissionGiven:     record.TotalCommissionGiven,
		TotalTaxGiven:            record.TotalTaxGiven,
		TotalDeliveryChargeGiven: record.TotalDeliveryChargeGiven,
		CollectedCash:            record.CollectedCash,
		CreatedAt:                record.CreatedAt,
		UpdatedAt:                record.UpdatedAt,
	}
}
