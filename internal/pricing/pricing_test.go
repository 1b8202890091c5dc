package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/pkg/enums"
)

func defaultRules() Rules {
	return Rules{
		FreeShippingAbove: decimal.NewFromInt(50),
		ShippingFee:       decimal.NewFromInt(10),
		CODFee:            decimal.NewFromInt(5),
	}
}

func TestComputeShippingThreshold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		subtotal     int64
		wantShipping int64
	}{
		{name: "below threshold", subtotal: 40, wantShipping: 10},
		{name: "exactly at threshold", subtotal: 50, wantShipping: 10},
		{name: "above threshold", subtotal: 51, wantShipping: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			lines := []Line{{UnitPrice: decimal.NewFromInt(tc.subtotal), Quantity: 1}}
			got := Compute(lines, enums.PaymentMethodCard, decimal.Zero, defaultRules())
			if !got.ShippingFee.Equal(decimal.NewFromInt(tc.wantShipping)) {
				t.Errorf("shipping = %s, want %d", got.ShippingFee, tc.wantShipping)
			}
		})
	}
}

func TestComputeCODFeeAppliesRegardlessOfSubtotal(t *testing.T) {
	t.Parallel()

	for _, subtotal := range []int64{10, 100} {
		lines := []Line{{UnitPrice: decimal.NewFromInt(subtotal), Quantity: 1}}
		got := Compute(lines, enums.PaymentMethodCOD, decimal.Zero, defaultRules())
		if !got.CODFee.Equal(decimal.NewFromInt(5)) {
			t.Errorf("subtotal %d: cod fee = %s, want 5", subtotal, got.CODFee)
		}
	}

	lines := []Line{{UnitPrice: decimal.NewFromInt(100), Quantity: 1}}
	got := Compute(lines, enums.PaymentMethodCard, decimal.Zero, defaultRules())
	if !got.CODFee.IsZero() {
		t.Errorf("card payment: cod fee = %s, want 0", got.CODFee)
	}
}

func TestComputeCardCartScenario(t *testing.T) {
	t.Parallel()

	// two units at 20 each, paid by card, no coupon
	lines := []Line{{UnitPrice: decimal.NewFromInt(20), Quantity: 2}}
	got := Compute(lines, enums.PaymentMethodCard, decimal.Zero, defaultRules())

	if !got.Subtotal.Equal(decimal.NewFromInt(40)) {
		t.Errorf("subtotal = %s, want 40", got.Subtotal)
	}
	if !got.ShippingFee.Equal(decimal.NewFromInt(10)) {
		t.Errorf("shipping = %s, want 10", got.ShippingFee)
	}
	if !got.Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("total = %s, want 50", got.Total)
	}
}

func TestComputeCODWithCouponScenario(t *testing.T) {
	t.Parallel()

	// one unit at 60, cash on delivery, 10% coupon snapshot
	lines := []Line{{UnitPrice: decimal.NewFromInt(60), Quantity: 1}}
	discount := decimal.NewFromInt(6)
	got := Compute(lines, enums.PaymentMethodCOD, discount, defaultRules())

	if !got.Subtotal.Equal(decimal.NewFromInt(60)) {
		t.Errorf("subtotal = %s, want 60", got.Subtotal)
	}
	if !got.ShippingFee.IsZero() {
		t.Errorf("shipping = %s, want 0", got.ShippingFee)
	}
	if !got.CODFee.Equal(decimal.NewFromInt(5)) {
		t.Errorf("cod fee = %s, want 5", got.CODFee)
	}
	if !got.Discount.Equal(discount) {
		t.Errorf("discount = %s, want 6", got.Discount)
	}
	if !got.Total.Equal(decimal.NewFromInt(59)) {
		t.Errorf("total = %s, want 59", got.Total)
	}
}

func TestComputeTotalNeverNegative(t *testing.T) {
	t.Parallel()

	lines := []Line{{UnitPrice: decimal.NewFromInt(10), Quantity: 1}}
	got := Compute(lines, enums.PaymentMethodCard, decimal.NewFromInt(500), defaultRules())
	if !got.Total.IsZero() {
		t.Errorf("total = %s, want 0", got.Total)
	}
}

func TestComputeNegativeDiscountTreatedAsZero(t *testing.T) {
	t.Parallel()

	lines := []Line{{UnitPrice: decimal.NewFromInt(10), Quantity: 1}}
	got := Compute(lines, enums.PaymentMethodCard, decimal.NewFromInt(-5), defaultRules())
	if !got.Discount.IsZero() {
		t.Errorf("discount = %s, want 0", got.Discount)
	}
	if !got.Total.Equal(decimal.NewFromInt(20)) {
		t.Errorf("total = %s, want 20", got.Total)
	}
}

func TestSubtotalSkipsNonPositiveQuantities(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{UnitPrice: decimal.NewFromFloat(19.99), Quantity: 2},
		{UnitPrice: decimal.NewFromInt(100), Quantity: 0},
	}
	got := Subtotal(lines)
	if !got.Equal(decimal.NewFromFloat(39.98)) {
		t.Errorf("subtotal = %s, want 39.98", got)
	}
}
