package billing

import "github.com/winside-retail/backoffice/internal/money"

// Totals holds the derived amounts of an invoice. All four fields are
// recomputed in full on every mutation of lines, discount, or tax rate.
type Totals struct {
	Subtotal       money.Amount `json:"subtotal"`
	DiscountAmount money.Amount `json:"discount_amount"`
	TaxAmount      money.Amount `json:"tax_amount"`
	Total          money.Amount `json:"total"`
}

// ComputeTotals derives invoice totals from captured line items.
//
//	subtotal = Σ quantity × unitPrice (exact integer math)
//	discount = subtotal × value/100 for percentage, or the fixed amount;
//	           both variants are clamped to [0, subtotal]
//	tax      = (subtotal − discount) × taxRate/100
//	total    = subtotal − discount + tax
//
// discountValue is a percentage for DiscountPercentage and a major-unit
// currency amount for DiscountFixed. Percentages round half away from zero
// on cents.
func ComputeTotals(lines []LineItem, discountType DiscountType, discountValue, taxRate float64) Totals {
	var subtotal money.Amount
	for _, line := range lines {
		subtotal += line.UnitPrice.MulQty(line.Quantity)
	}

	var discount money.Amount
	switch discountType {
	case DiscountPercentage:
		discount = subtotal.PercentOf(discountValue).Clamp(0, subtotal)
	case DiscountFixed:
		discount = money.FromFloat(discountValue).Clamp(0, subtotal)
	}

	taxable := subtotal - discount
	tax := taxable.PercentOf(taxRate)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		Total:          taxable + tax,
	}
}
