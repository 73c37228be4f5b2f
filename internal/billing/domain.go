// Package billing manages customer invoices: line items with prices captured
// at creation time, discount and tax computation, a status lifecycle, and PDF
// rendering.
package billing

import (
	"errors"
	"time"

	"github.com/winside-retail/backoffice/internal/money"
)

var (
	ErrNotFound          = errors.New("billing: invoice not found")
	ErrCustomerNotFound  = errors.New("billing: customer not found")
	ErrProductNotFound   = errors.New("billing: product not found")
	ErrVariantNotFound   = errors.New("billing: variant not found")
	ErrNotDraft          = errors.New("billing: invoice is not a draft")
	ErrInvalidTransition = errors.New("billing: invalid status transition")
	ErrInvalidDiscount   = errors.New("billing: percentage discount must be between 0 and 100")
)

type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusPending   InvoiceStatus = "pending"
	StatusPaid      InvoiceStatus = "paid"
	StatusPartial   InvoiceStatus = "partial"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// transitions is the full status lifecycle. Paid and cancelled are terminal.
var transitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft:     {StatusPending, StatusCancelled},
	StatusPending:   {StatusPaid, StatusPartial, StatusOverdue, StatusCancelled},
	StatusPartial:   {StatusPaid, StatusOverdue, StatusCancelled},
	StatusOverdue:   {StatusPaid, StatusPartial, StatusCancelled},
	StatusPaid:      {},
	StatusCancelled: {},
}

func (s InvoiceStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// LineItem carries the quantity and unit price captured when the line was
// added. Later catalog price changes never affect existing lines.
type LineItem struct {
	ID          int64        `json:"id"`
	InvoiceID   int64        `json:"invoice_id"`
	ProductID   int64        `json:"product_id"`
	VariantID   *int64       `json:"variant_id,omitempty"`
	Description string       `json:"description"`
	Quantity    int64        `json:"quantity"`
	UnitPrice   money.Amount `json:"unit_price"`
	LineTotal   money.Amount `json:"line_total"`
}

// Invoice references a customer but does not own it; either may outlive the
// other except that the database forbids deleting a customer with invoices.
type Invoice struct {
	ID             int64         `json:"id"`
	Number         string        `json:"number"`
	CustomerID     int64         `json:"customer_id"`
	Brand          string        `json:"brand"`
	Status         InvoiceStatus `json:"status"`
	Lines          []LineItem    `json:"lines"`
	DiscountType   DiscountType  `json:"discount_type"`
	DiscountValue  float64       `json:"discount_value"`
	TaxRate        float64       `json:"tax_rate"`
	Subtotal       money.Amount  `json:"subtotal"`
	DiscountAmount money.Amount  `json:"discount_amount"`
	TaxAmount      money.Amount  `json:"tax_amount"`
	Total          money.Amount  `json:"total"`
	DueDate        time.Time     `json:"due_date"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
