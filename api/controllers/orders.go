package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/api/responses"
	"github.com/zubairqazi/bazaarline-backend/api/validators"
	ordersvc "github.com/zubairqazi/bazaarline-backend/internal/orders"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
	"github.com/zubairqazi/bazaarline-backend/pkg/types"
)

// OrderCreate places an order from an explicit line item list.
func OrderCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(record))
	}
}

// OrderCheckout converts the customer's active cart for a vendor into an order.
func OrderCheckout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		record, err := svc.Checkout(r.Context(), ordersvc.CheckoutInput{
			CustomerID:    payload.CustomerID,
			VendorID:      payload.VendorID,
			PaymentMethod: method,
			OrderNote:     payload.OrderNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(record))
	}
}

// OrderTransition moves an order through the fulfillment state machine.
func OrderTransition(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload transitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		record, err := svc.TransitionStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(record))
	}
}

// OrderGet returns one order by id.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		record, err := svc.GetByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(record))
	}
}

// OrderTrack resolves an order by its public order number.
func OrderTrack(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		record, err := svc.TrackByNumber(r.Context(), chi.URLParam(r, "orderNumber"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(record))
	}
}

// OrderList returns orders filtered by customer or vendor.
func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var (
			records []models.Order
			err     error
		)
		switch {
		case r.URL.Query().Get("customer_id") != "":
			var customerID uuid.UUID
			customerID, err = uuid.Parse(r.URL.Query().Get("customer_id"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
				return
			}
			records, err = svc.ListByCustomer(r.Context(), customerID)
		case r.URL.Query().Get("vendor_id") != "":
			var vendorID uuid.UUID
			vendorID, err = uuid.Parse(r.URL.Query().Get("vendor_id"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
				return
			}
			records, err = svc.ListByVendor(r.Context(), vendorID)
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer_id or vendor_id required"))
			return
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderResponse, 0, len(records))
		for i := range records {
			out = append(out, newOrderResponse(&records[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type createOrderRequest struct {
	CustomerID        uuid.UUID              `json:"customer_id" validate:"required"`
	VendorID          uuid.UUID              `json:"vendor_id" validate:"required"`
	PaymentMethod     string                 `json:"payment_method" validate:"required"`
	OrderNote         *string                `json:"order_note"`
	TotalQty          int                    `json:"total_qty" validate:"required,min=1"`
	TotalAmount       decimal.Decimal        `json:"total_amount" validate:"required"`
	TotalDiscount     decimal.Decimal        `json:"total_discount"`
	TotalTaxAmount    decimal.Decimal        `json:"total_tax_amount"`
	TotalShippingCost decimal.Decimal        `json:"total_shipping_cost"`
	Items             []orderLineItemPayload `json:"items" validate:"required,dive"`
}

type orderLineItemPayload struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

func (r createOrderRequest) toInput() (ordersvc.CreateInput, error) {
	method, err := enums.ParsePaymentMethod(r.PaymentMethod)
	if err != nil {
		return ordersvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	items := make([]ordersvc.LineItemInput, len(r.Items))
	for i, payload := range r.Items {
		items[i] = ordersvc.LineItemInput{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			UnitPrice: payload.UnitPrice,
		}
	}

	return ordersvc.CreateInput{
		CustomerID:        r.CustomerID,
		VendorID:          r.VendorID,
		LineItems:         items,
		TotalQty:          r.TotalQty,
		TotalAmount:       r.TotalAmount,
		TotalDiscount:     r.TotalDiscount,
		TotalTaxAmount:    r.TotalTaxAmount,
		TotalShippingCost: r.TotalShippingCost,
		PaymentMethod:     method,
		OrderNote:         r.OrderNote,
	}, nil
}

type checkoutRequest struct {
	CustomerID    uuid.UUID `json:"customer_id" validate:"required"`
	VendorID      uuid.UUID `json:"vendor_id" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required"`
	OrderNote     *string   `json:"order_note"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderResponse struct {
	ID                uuid.UUID               `json:"id"`
	OrderNumber       string                  `json:"order_number"`
	CustomerID        uuid.UUID               `json:"customer_id"`
	VendorID          uuid.UUID               `json:"vendor_id"`
	Status            string                  `json:"status"`
	PaymentMethod     string                  `json:"payment_method"`
	PaymentStatus     string                  `json:"payment_status"`
	OrderNote         *string                 `json:"order_note,omitempty"`
	TotalQty          int                     `json:"total_qty"`
	TotalAmount       decimal.Decimal         `json:"total_amount"`
	TotalDiscount     decimal.Decimal         `json:"total_discount"`
	TotalTaxAmount    decimal.Decimal         `json:"total_tax_amount"`
	TotalShippingCost decimal.Decimal         `json:"total_shipping_cost"`
	ShippingAddress   *types.Address          `json:"shipping_address,omitempty"`
	BillingAddress    *types.Address          `json:"billing_address,omitempty"`
	Items             []orderLineItemResponse `json:"items"`
	DeliveredAt       *time.Time              `json:"delivered_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

type orderLineItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func newOrderResponse(record *models.Order) orderResponse {
	items := make([]orderLineItemResponse, 0, len(record.LineItems))
	for _, item := range record.LineItems {
		items = append(items, orderLineItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return orderResponse{
		ID:                record.ID,
		OrderNumber:       record.OrderNumber,
		CustomerID:        record.CustomerID,
		VendorID:          record.VendorID,
		Status:            string(record.Status),
		PaymentMethod:     string(record.PaymentMethod),
		PaymentStatus:     string(record.PaymentStatus),
		OrderNote:         record.OrderNote,
		TotalQty:          record.TotalQty,
		TotalAmount:       record.TotalAmount,
		TotalDiscount:     record.TotalDiscount,
		TotalTaxAmount:    record.TotalTaxAmount,
		TotalShippingCost: record.TotalShippingCost,
		ShippingAddress:   record.ShippingAddress,
		BillingAddress:    record.BillingAddress,
		Items:             items,
		DeliveredAt:       record.DeliveredAt,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}
