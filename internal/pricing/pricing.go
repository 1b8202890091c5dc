package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/pkg/enums"
)

// Line is the minimal view of a cart line the calculator needs.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Rules carries the storefront fee schedule. Amounts come from config so
// ops can adjust them without a deploy.
type Rules struct {
	FreeShippingAbove decimal.Decimal
	ShippingFee       decimal.Decimal
	CODFee            decimal.Decimal
}

// Breakdown is the itemized result of one pricing pass.
type Breakdown struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	CODFee      decimal.Decimal `json:"cod_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Subtotal sums unit price times quantity across the provided lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Compute derives the full price breakdown for a cart. Shipping is waived
// only when the subtotal strictly exceeds the free shipping threshold, so a
// subtotal exactly at the threshold still pays the fee. The total never goes
// below zero even when the discount exceeds the remaining charges.
func Compute(lines []Line, method enums.PaymentMethod, discount decimal.Decimal, rules Rules) Breakdown {
	subtotal := Subtotal(lines)

	shipping := rules.ShippingFee
	if subtotal.GreaterThan(rules.FreeShippingAbove) {
		shipping = decimal.Zero
	}

	codFee := decimal.Zero
	if method == enums.PaymentMethodCOD {
		codFee = rules.CODFee
	}

	if discount.IsNegative() {
		discount = decimal.Zero
	}

	total := subtotal.Add(shipping).Add(codFee).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Breakdown{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		CODFee:      codFee,
		Discount:    discount,
		Total:       total,
	}
}
