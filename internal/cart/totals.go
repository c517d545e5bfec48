package cart

import (
	"github.com/shopspring/decimal"

	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
)

// Totals is the derived aggregation over a cart's current line items.
type Totals struct {
	TotalQty            int
	SubTotalAmount      decimal.Decimal
	TotalDiscountAmount decimal.Decimal
	TotalTaxAmount      decimal.Decimal
	TotalWeight         decimal.Decimal
	TotalAmount         decimal.Decimal
}

// ComputeTotals derives the cart totals as a pure summation over the items:
// totalAmount = subTotal - totalDiscount + totalTax.
func ComputeTotals(items []models.CartItem) Totals {
	totals := Totals{
		SubTotalAmount:      decimal.Zero,
		TotalDiscountAmount: decimal.Zero,
		TotalTaxAmount:      decimal.Zero,
		TotalWeight:         decimal.Zero,
		TotalAmount:         decimal.Zero,
	}
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		totals.TotalQty += item.Quantity
		totals.SubTotalAmount = totals.SubTotalAmount.Add(item.UnitPrice.Mul(qty))
		totals.TotalDiscountAmount = totals.TotalDiscountAmount.Add(item.UnitDiscount.Mul(qty))
		totals.TotalTaxAmount = totals.TotalTaxAmount.Add(item.UnitTax.Mul(qty))
		totals.TotalWeight = totals.TotalWeight.Add(item.UnitWeight.Mul(qty))
	}
	totals.TotalAmount = totals.SubTotalAmount.
		Sub(totals.TotalDiscountAmount).
		Add(totals.TotalTaxAmount)
	return totals
}

// Apply copies the totals onto the cart model.
func (t Totals) Apply(cart *models.Cart) {
	cart.TotalQty = t.TotalQty
	cart.SubTotalAmount = t.SubTotalAmount
	cart.TotalDiscountAmount = t.TotalDiscountAmount
	cart.TotalTaxAmount = t.TotalTaxAmount
	cart.TotalWeight = t.TotalWeight
	cart.TotalAmount = t.TotalAmount
}
