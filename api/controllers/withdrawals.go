package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/api/responses"
	"github.com/zubairqazi/bazaarline-backend/api/validators"
	withdrawsvc "github.com/zubairqazi/bazaarline-backend/internal/withdrawals"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

// WithdrawRequest files a seller payout request against the withdrawable balance.
func WithdrawRequest(svc withdrawsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "withdraw service unavailable"))
			return
		}

		var payload withdrawRequestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Request(r.Context(), withdrawsvc.RequestInput{
			VendorID: payload.VendorID,
			Amount:   payload.Amount,
			Note:     payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newWithdrawalResponse(record))
	}
}

// WithdrawResolve applies the admin decision to a pending request.
func WithdrawResolve(svc withdrawsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "withdraw service unavailable"))
			return
		}

		withdrawalID, err := uuid.Parse(chi.URLParam(r, "withdrawalID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid withdrawal id"))
			return
		}

		var payload withdrawResolvePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseWithdrawStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid withdraw status"))
			return
		}

		record, err := svc.Resolve(r.Context(), withdrawsvc.ResolveInput{
			WithdrawalID: withdrawalID,
			Status:       status,
			Note:         payload.Note,
			ReceiptRef:   payload.ReceiptRef,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newWithdrawalResponse(record))
	}
}

// WithdrawGet returns one withdraw request by id.
func WithdrawGet(svc withdrawsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "withdraw service unavailable"))
			return
		}

		withdrawalID, err := uuid.Parse(chi.URLParam(r, "withdrawalID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid withdrawal id"))
			return
		}

		record, err := svc.GetByID(r.Context(), withdrawalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newWithdrawalResponse(record))
	}
}

// WithdrawList returns a vendor's withdraw history, or the pending review
// queue when no vendor filter is given.
func WithdrawList(svc withdrawsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "withdraw service unavailable"))
			return
		}

		var (
			records []models.Withdrawal
			err     error
		)
		if raw := r.URL.Query().Get("vendor_id"); raw != "" {
			var vendorID uuid.UUID
			vendorID, err = uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
				return
			}
			records, err = svc.ListByVendor(r.Context(), vendorID)
		} else {
			records, err = svc.ListPending(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]withdrawalResponse, 0, len(records))
		for i := range records {
			out = append(out, newWithdrawalResponse(&records[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type withdrawRequestPayload struct {
	VendorID uuid.UUID       `json:"vendor_id" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Note     *string         `json:"note"`
}

type withdrawResolvePayload struct {
	Status     string  `json:"status" validate:"required"`
	Note       *string `json:"note"`
	ReceiptRef *string `json:"receipt_ref"`
}

type withdrawalResponse struct {
	ID         uuid.UUID       `json:"id"`
	VendorID   uuid.UUID       `json:"vendor_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	Note       *string         `json:"note,omitempty"`
	ReceiptRef *string         `json:"receipt_ref,omitempty"`
	ResolvedAt *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func newWithdrawalResponse(record *models.Withdrawal) withdrawalResponse {
	return withdrawalResponse{
		ID:         record.ID,
		VendorID:   record.VendorID,
		Amount:     record.Amount,
		Status:     string(record.Status),
		Note:       record.Note,
		ReceiptRef: record.ReceiptRef,
		ResolvedAt: record.ResolvedAt,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}
