// Package money models currency amounts as integer minor units so invoice
// arithmetic stays exact. Rounding happens only when applying rates.
package money

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amount is a currency value in minor units (cents).
type Amount int64

// FromFloat converts a major-unit value (e.g. 25.00) to an Amount,
// rounding half away from zero.
func FromFloat(v float64) Amount {
	if v >= 0 {
		return Amount(v*100 + 0.5)
	}
	return Amount(v*100 - 0.5)
}

// Float returns the major-unit value for JSON and display boundaries.
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// MulQty multiplies the amount by a quantity.
func (a Amount) MulQty(qty int64) Amount {
	return Amount(int64(a) * qty)
}

// PercentOf returns pct percent of the amount, rounded half away from zero
// on the cent. pct is expressed in percent (10 means 10%).
func (a Amount) PercentOf(pct float64) Amount {
	v := float64(a) * pct / 100
	if v >= 0 {
		return Amount(v + 0.5)
	}
	return Amount(v - 0.5)
}

// Clamp restricts the amount to the inclusive range [lo, hi].
func (a Amount) Clamp(lo, hi Amount) Amount {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

var printer = message.NewPrinter(language.English)

// String formats the amount with two decimals and thousands separators.
func (a Amount) String() string {
	neg := a < 0
	v := int64(a)
	if neg {
		v = -v
	}
	s := printer.Sprintf("%d.%02d", v/100, v%100)
	if neg {
		return "-" + s
	}
	return s
}

// Format renders the amount with a currency code prefix, e.g. "GBP 1,250.00".
func (a Amount) Format(currency string) string {
	if currency == "" {
		return a.String()
	}
	return fmt.Sprintf("%s %s", currency, a.String())
}
