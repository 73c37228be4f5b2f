package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/winside-retail/backoffice/internal/money"
)

var (
	ErrNotFound      = errors.New("products: record not found")
	ErrAlreadyExists = errors.New("products: article already exists for brand")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	product := Product{
		Article:    req.Article,
		Title:      req.Title,
		Brand:      req.Brand,
		CategoryID: req.CategoryID,
		Attributes: req.Attributes,
		Wholesale:  money.FromFloat(req.Wholesale),
		Retail:     money.FromFloat(req.Retail),
		Club:       money.FromFloat(req.Club),
		CostBefore: money.FromFloat(req.CostBefore),
		CostAfter:  money.FromFloat(req.CostAfter),
		Variants:   variantsFromForms(req.Variants),
	}
	if err := s.validate(product); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByArticle(ctx, product.Brand, product.Article)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing product: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: article %q", ErrAlreadyExists, product.Article)
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.CategoryID != nil {
		existing.CategoryID = req.CategoryID
	}
	if req.Attributes != nil {
		existing.Attributes = *req.Attributes
	}
	if req.Wholesale != nil {
		existing.Wholesale = money.FromFloat(*req.Wholesale)
	}
	if req.Retail != nil {
		existing.Retail = money.FromFloat(*req.Retail)
	}
	if req.Club != nil {
		existing.Club = money.FromFloat(*req.Club)
	}
	if req.CostBefore != nil {
		existing.CostBefore = money.FromFloat(*req.CostBefore)
	}
	if req.CostAfter != nil {
		existing.CostAfter = money.FromFloat(*req.CostAfter)
	}
	if req.Archived != nil {
		existing.Archived = *req.Archived
	}
	if req.Variants != nil {
		existing.Variants = variantsFromForms(*req.Variants)
	}
	if err := s.validate(*existing); err != nil {
		return nil, err
	}

	replaceVariants := req.Variants != nil
	if err := s.repo.Update(ctx, id, *existing, replaceVariants); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

// Archive flags the product without removing it from past invoices.
func (s *Service) Archive(ctx context.Context, id int64, archived bool) (*Product, error) {
	if err := s.repo.SetArchived(ctx, id, archived); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes the product together with its variants and stock rows.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func variantsFromForms(forms []VariantForm) []Variant {
	if len(forms) == 0 {
		return nil
	}
	variants := make([]Variant, 0, len(forms))
	for _, f := range forms {
		v := Variant{
			SKU:        f.SKU,
			Attributes: f.Attributes,
			Quantity:   f.Quantity,
		}
		if f.Wholesale != nil {
			a := money.FromFloat(*f.Wholesale)
			v.Wholesale = &a
		}
		if f.Retail != nil {
			a := money.FromFloat(*f.Retail)
			v.Retail = &a
		}
		if f.Club != nil {
			a := money.FromFloat(*f.Club)
			v.Club = &a
		}
		variants = append(variants, v)
	}
	return variants
}
