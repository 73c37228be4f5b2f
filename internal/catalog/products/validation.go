package products

import (
	"errors"
	"fmt"
	"strings"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Article) == "" {
		return errors.New("product article is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("product title is required")
	}
	if strings.TrimSpace(p.Brand) == "" {
		return errors.New("product brand is required")
	}
	seen := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		sku := strings.TrimSpace(v.SKU)
		if sku == "" {
			return errors.New("variant sku is required")
		}
		if _, dup := seen[sku]; dup {
			return fmt.Errorf("duplicate variant sku %q", sku)
		}
		seen[sku] = struct{}{}
	}
	return nil
}
