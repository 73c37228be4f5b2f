package billing

import (
	"context"
	"fmt"

	"github.com/winside-retail/backoffice/internal/catalog/products"
	"github.com/winside-retail/backoffice/internal/customers"
	"github.com/winside-retail/backoffice/internal/pricing"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	Update(ctx context.Context, inv *Invoice) error
	UpdateStatus(ctx context.Context, id int64, status InvoiceStatus) error
	Delete(ctx context.Context, id int64) error
}

// CustomerSource supplies the pricing tier of the invoiced customer.
type CustomerSource interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// ProductSource supplies catalog records (with variants) for price capture.
type ProductSource interface {
	Get(ctx context.Context, id int64) (*products.Product, error)
}

type Service struct {
	repo           Repository
	customerSource CustomerSource
	productSource  ProductSource
	defaultTaxRate float64
}

func NewService(repo Repository, cs CustomerSource, ps ProductSource, defaultTaxRate float64) *Service {
	return &Service{
		repo:           repo,
		customerSource: cs,
		productSource:  ps,
		defaultTaxRate: defaultTaxRate,
	}
}

func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	customer, err := s.customerSource.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrCustomerNotFound, req.CustomerID)
	}

	lines, err := s.buildLines(ctx, customer.Tier, req.Lines)
	if err != nil {
		return nil, err
	}

	discountType := DiscountType(req.DiscountType)
	if discountType == "" {
		discountType = DiscountPercentage
	}
	if err := validateDiscount(discountType, req.DiscountValue); err != nil {
		return nil, err
	}
	taxRate := s.defaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	inv := &Invoice{
		CustomerID:    customer.ID,
		Brand:         customer.Brand,
		Status:        StatusDraft,
		Lines:         lines,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		TaxRate:       taxRate,
		DueDate:       req.DueDate,
	}
	inv.applyTotals()

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

// Update edits a draft invoice. Non-draft invoices are immutable except for
// status transitions.
func (s *Service) Update(ctx context.Context, id int64, req UpdateInvoiceRequest) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != StatusDraft {
		return nil, fmt.Errorf("%w: status %s", ErrNotDraft, inv.Status)
	}

	if req.Lines != nil {
		customer, err := s.customerSource.Get(ctx, inv.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("%w: id %d", ErrCustomerNotFound, inv.CustomerID)
		}
		lines, err := s.buildLines(ctx, customer.Tier, req.Lines)
		if err != nil {
			return nil, err
		}
		inv.Lines = lines
	}
	if req.DiscountType != nil {
		inv.DiscountType = DiscountType(*req.DiscountType)
	}
	if req.DiscountValue != nil {
		inv.DiscountValue = *req.DiscountValue
	}
	if req.TaxRate != nil {
		inv.TaxRate = *req.TaxRate
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if err := validateDiscount(inv.DiscountType, inv.DiscountValue); err != nil {
		return nil, err
	}
	inv.applyTotals()

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return inv, nil
}

func (s *Service) Transition(ctx context.Context, id int64, next InvoiceStatus) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	inv.Status = next
	return inv, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	return s.repo.List(ctx, req)
}

// Delete removes a draft invoice. Issued invoices are cancelled, not deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != StatusDraft {
		return fmt.Errorf("%w: status %s", ErrNotDraft, inv.Status)
	}
	return s.repo.Delete(ctx, id)
}

// buildLines captures unit prices for the customer's tier at the moment the
// lines are written. The captured price never changes afterwards.
func (s *Service) buildLines(ctx context.Context, tier customers.Tier, forms []LineItemForm) ([]LineItem, error) {
	lines := make([]LineItem, 0, len(forms))
	for _, form := range forms {
		product, err := s.productSource.Get(ctx, form.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, form.ProductID)
		}

		var variant *products.Variant
		description := product.Title
		if form.VariantID != nil {
			for i := range product.Variants {
				if product.Variants[i].ID == *form.VariantID {
					variant = &product.Variants[i]
					break
				}
			}
			if variant == nil {
				return nil, fmt.Errorf("%w: id %d on product %d", ErrVariantNotFound, *form.VariantID, form.ProductID)
			}
			description = fmt.Sprintf("%s (%s)", product.Title, variant.SKU)
		}

		unit, err := pricing.Resolve(tier, product, variant)
		if err != nil {
			return nil, err
		}

		lines = append(lines, LineItem{
			ProductID:   form.ProductID,
			VariantID:   form.VariantID,
			Description: description,
			Quantity:    form.Quantity,
			UnitPrice:   unit,
			LineTotal:   unit.MulQty(form.Quantity),
		})
	}
	return lines, nil
}

// validateDiscount bounds percentage discounts to 0..100. The validator tag
// on the DTO cannot depend on the sibling discount type field, so the range
// check lives here.
func validateDiscount(discountType DiscountType, value float64) error {
	if discountType == DiscountPercentage && (value < 0 || value > 100) {
		return fmt.Errorf("%w: got %v", ErrInvalidDiscount, value)
	}
	return nil
}

func (inv *Invoice) applyTotals() {
	totals := ComputeTotals(inv.Lines, inv.DiscountType, inv.DiscountValue, inv.TaxRate)
	inv.Subtotal = totals.Subtotal
	inv.DiscountAmount = totals.DiscountAmount
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
}
