// Package pricing resolves the unit price charged to a customer for a
// catalog item based on the customer's pricing tier.
package pricing

import (
	"fmt"

	"github.com/winside-retail/backoffice/internal/catalog/products"
	"github.com/winside-retail/backoffice/internal/customers"
	"github.com/winside-retail/backoffice/internal/money"
)

// Resolve returns the unit price for the given tier. Variant price overrides
// take precedence over the product's price columns; a nil variant (or a
// variant without an override for the tier) falls back to the product.
// Unknown tiers are an error, never a silent fallback to retail.
func Resolve(tier customers.Tier, product *products.Product, variant *products.Variant) (money.Amount, error) {
	if !tier.Valid() {
		return 0, fmt.Errorf("pricing: resolve tier %q: %w", tier, customers.ErrUnknownTier)
	}
	if variant != nil {
		if p, ok := variantOverride(tier, variant); ok {
			return p, nil
		}
	}
	switch tier {
	case customers.TierRetail:
		return product.Retail, nil
	case customers.TierWholesale:
		return product.Wholesale, nil
	case customers.TierClub:
		return product.Club, nil
	}
	return 0, fmt.Errorf("pricing: resolve tier %q: %w", tier, customers.ErrUnknownTier)
}

func variantOverride(tier customers.Tier, v *products.Variant) (money.Amount, bool) {
	var p *money.Amount
	switch tier {
	case customers.TierRetail:
		p = v.Retail
	case customers.TierWholesale:
		p = v.Wholesale
	case customers.TierClub:
		p = v.Club
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}
