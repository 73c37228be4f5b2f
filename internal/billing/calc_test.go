package billing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winside-retail/backoffice/internal/money"
)

func line(qty int64, unit money.Amount) LineItem {
	return LineItem{Quantity: qty, UnitPrice: unit}
}

func TestComputeTotalsIdentity(t *testing.T) {
	// retail 25.00 × 2, no discount, no tax: total equals subtotal.
	got := ComputeTotals([]LineItem{line(2, 2500)}, DiscountPercentage, 0, 0)

	require.Equal(t, money.Amount(5000), got.Subtotal)
	require.Equal(t, money.Amount(0), got.DiscountAmount)
	require.Equal(t, money.Amount(0), got.TaxAmount)
	require.Equal(t, money.Amount(5000), got.Total)
}

func TestComputeTotalsPercentageDiscountAndTax(t *testing.T) {
	// subtotal 100.00, 10% discount, 20% tax.
	got := ComputeTotals([]LineItem{line(4, 2500)}, DiscountPercentage, 10, 20)

	require.Equal(t, money.Amount(10000), got.Subtotal)
	require.Equal(t, money.Amount(1000), got.DiscountAmount)
	require.Equal(t, money.Amount(1800), got.TaxAmount)
	require.Equal(t, money.Amount(10800), got.Total)
}

func TestComputeTotalsSubtotalIsExact(t *testing.T) {
	lines := []LineItem{line(3, 1999), line(7, 505), line(1, 1)}
	got := ComputeTotals(lines, DiscountPercentage, 0, 0)

	require.Equal(t, money.Amount(3*1999+7*505+1), got.Subtotal)
	require.Equal(t, got.Subtotal, got.Total)
}

func TestComputeTotalsFixedDiscountClamped(t *testing.T) {
	lines := []LineItem{line(1, 3000)}

	// A fixed discount above the subtotal cannot drive the total negative.
	got := ComputeTotals(lines, DiscountFixed, 99.99, 0)
	require.Equal(t, money.Amount(3000), got.DiscountAmount)
	require.Equal(t, money.Amount(0), got.Total)

	// Negative fixed discounts clamp to zero.
	got = ComputeTotals(lines, DiscountFixed, -5, 0)
	require.Equal(t, money.Amount(0), got.DiscountAmount)
	require.Equal(t, money.Amount(3000), got.Total)
}

func TestComputeTotalsPercentageDiscountClamped(t *testing.T) {
	lines := []LineItem{line(1, 10000)}

	// A percentage above 100 cannot drive the total negative.
	got := ComputeTotals(lines, DiscountPercentage, 150, 0)
	require.Equal(t, money.Amount(10000), got.DiscountAmount)
	require.Equal(t, money.Amount(0), got.Total)

	// Negative percentages clamp to zero.
	got = ComputeTotals(lines, DiscountPercentage, -10, 0)
	require.Equal(t, money.Amount(0), got.DiscountAmount)
	require.Equal(t, money.Amount(10000), got.Total)
}

func TestComputeTotalsPercentageMonotonic(t *testing.T) {
	lines := []LineItem{line(3, 3337)}
	prev := money.Amount(-1)
	for pct := 0.0; pct <= 100; pct += 2.5 {
		got := ComputeTotals(lines, DiscountPercentage, pct, 0)
		require.GreaterOrEqual(t, got.DiscountAmount, prev, "discount must not decrease as pct grows")
		require.Equal(t, got.Subtotal-got.DiscountAmount+got.TaxAmount, got.Total)
		prev = got.DiscountAmount
	}
}

func TestComputeTotalsTotalIdentityHolds(t *testing.T) {
	cases := []struct {
		name         string
		lines        []LineItem
		discountType DiscountType
		discount     float64
		taxRate      float64
	}{
		{"no lines", nil, DiscountPercentage, 10, 20},
		{"odd cents", []LineItem{line(3, 333)}, DiscountPercentage, 7.5, 19},
		{"fixed mid", []LineItem{line(2, 4599)}, DiscountFixed, 10.50, 8.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTotals(tc.lines, tc.discountType, tc.discount, tc.taxRate)
			require.Equal(t, got.Subtotal-got.DiscountAmount+got.TaxAmount, got.Total)
		})
	}
}
