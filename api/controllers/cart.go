package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/api/responses"
	"github.com/zubairqazi/bazaarline-backend/api/validators"
	cartsvc "github.com/zubairqazi/bazaarline-backend/internal/cart"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

// CartApplyDelta adjusts one product's quantity in the customer's active cart
// for the product's vendor. Positive deltas add, negative deltas subtract, and
// a delta that zeroes the line removes it.
func CartApplyDelta(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload applyDeltaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.ApplyItemDelta(r.Context(), cartsvc.ApplyItemDeltaInput{
			CustomerID:    payload.CustomerID,
			ProductID:     payload.ProductID,
			QuantityDelta: payload.QuantityDelta,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartList returns every active cart for a customer, one per vendor.
func CartList(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := uuid.Parse(r.URL.Query().Get("customer_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		carts, err := svc.GetActiveCarts(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]cartResponse, 0, len(carts))
		for i := range carts {
			out = append(out, newCartResponse(&carts[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type applyDeltaRequest struct {
	CustomerID    uuid.UUID `json:"customer_id" validate:"required"`
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	QuantityDelta int       `json:"quantity_delta" validate:"required"`
}

type cartResponse struct {
	ID                  uuid.UUID          `json:"id"`
	CustomerID          uuid.UUID          `json:"customer_id"`
	VendorID            uuid.UUID          `json:"vendor_id"`
	Status              string             `json:"status"`
	TotalQty            int                `json:"total_qty"`
	SubTotalAmount      decimal.Decimal    `json:"sub_total_amount"`
	TotalDiscountAmount decimal.Decimal    `json:"total_discount_amount"`
	TotalTaxAmount      decimal.Decimal    `json:"total_tax_amount"`
	TotalWeight         decimal.Decimal    `json:"total_weight"`
	TotalAmount         decimal.Decimal    `json:"total_amount"`
	Items               []cartItemResponse `json:"items"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

type cartItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitDiscount decimal.Decimal `json:"unit_discount"`
	UnitTax      decimal.Decimal `json:"unit_tax"`
	UnitWeight   decimal.Decimal `json:"unit_weight"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func newCartResponse(record *models.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, cartItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			UnitDiscount: item.UnitDiscount,
			UnitTax:      item.UnitTax,
			UnitWeight:   item.UnitWeight,
			CreatedAt:    item.CreatedAt,
			UpdatedAt:    item.UpdatedAt,
		})
	}

	return cartResponse{
		ID:                  record.ID,
		CustomerID:          record.CustomerID,
		VendorID:            record.VendorID,
		Status:              string(record.Status),
		TotalQty:            record.TotalQty,
		SubTotalAmount:      record.SubTotalAmount,
		TotalDiscountAmount: record.TotalDiscountAmount,
		TotalTaxAmount:      record.TotalTaxAmount,
		TotalWeight:         record.TotalWeight,
		TotalAmount:         record.TotalAmount,
		Items:               items,
		CreatedAt:           record.CreatedAt,
		UpdatedAt:           record.UpdatedAt,
	}
}
