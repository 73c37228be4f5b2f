package billing

import "time"

type LineItemForm struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	VariantID *int64 `json:"variant_id,omitempty" validate:"omitempty,gt=0"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

type CreateInvoiceRequest struct {
	CustomerID    int64          `json:"customer_id" validate:"required,gt=0"`
	Lines         []LineItemForm `json:"lines" validate:"required,min=1,dive"`
	DiscountType  string         `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue float64        `json:"discount_value" validate:"gte=0"`
	TaxRate       *float64       `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	DueDate       time.Time      `json:"due_date" validate:"required"`
}

// UpdateInvoiceRequest edits a draft. Nil fields keep their current value;
// providing Lines replaces the whole set and captures fresh prices.
type UpdateInvoiceRequest struct {
	Lines         []LineItemForm `json:"lines" validate:"omitempty,min=1,dive"`
	DiscountType  *string        `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *float64       `json:"discount_value" validate:"omitempty,gte=0"`
	TaxRate       *float64       `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	DueDate       *time.Time     `json:"due_date"`
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid partial overdue cancelled"`
}

type ListInvoicesRequest struct {
	Status     string `json:"status" validate:"omitempty,oneof=draft pending paid partial overdue cancelled"`
	CustomerID int64  `json:"customer_id" validate:"omitempty,gt=0"`
	Brand      string `json:"brand"`
	Page       int    `json:"page" validate:"omitempty,gte=1"`
	PerPage    int    `json:"per_page" validate:"omitempty,gte=1,lte=100"`
}
