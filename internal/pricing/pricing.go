// Package pricing derives checkout totals from a cart subtotal and the
// chosen fulfillment mode. All arithmetic is decimal; nothing here is
// allowed to drift the way float math would.
package pricing

import (
	"github.com/savora/api/internal/enum"
	"github.com/shopspring/decimal"
)

var (
	// TaxRate applies to every order regardless of type.
	TaxRate = decimal.RequireFromString("0.10")

	// DeliveryFee is a flat fee charged on DELIVERY orders only.
	DeliveryFee = decimal.RequireFromString("5.99")
)

// Quote is the full monetary breakdown of an order. Each component is
// rounded to 2 decimal places, and Total is the sum of the rounded parts so
// the stored columns always reconcile: total = subtotal + tax + fee + tip.
type Quote struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Tip         decimal.Decimal
	Total       decimal.Decimal
}

// Calculate prices an order. Tip is carried through unchanged apart from
// rounding; current flows always pass zero.
func Calculate(subtotal decimal.Decimal, orderType string, tip decimal.Decimal) Quote {
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)

	fee := decimal.Zero
	if orderType == enum.OrderTypeDelivery {
		fee = DeliveryFee
	}

	tip = tip.Round(2)

	return Quote{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Tip:         tip,
		Total:       subtotal.Add(tax).Add(fee).Add(tip),
	}
}
