package products

import (
	"time"

	"github.com/winside-retail/backoffice/internal/money"
)

// Product represents a catalog entry for one brand. The article code is the
// human-facing product code, unique per brand (enforced by the database).
type Product struct {
	ID         int64        `json:"id"`
	Article    string       `json:"article"`
	Title      string       `json:"title"`
	Brand      string       `json:"brand"`
	CategoryID *int64       `json:"category_id,omitempty"`
	Attributes []string     `json:"attributes"`
	Wholesale  money.Amount `json:"wholesale"`
	Retail     money.Amount `json:"retail"`
	Club       money.Amount `json:"club"`
	CostBefore money.Amount `json:"cost_before"`
	CostAfter  money.Amount `json:"cost_after"`
	Archived   bool         `json:"archived"`
	Variants   []Variant    `json:"variants"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	// Quantity is the on-hand stock for variant-less products. Products with
	// variants track quantity per variant instead.
	Quantity int `json:"quantity"`
}

// Variant is a purchasable configuration of a Product. It is owned by the
// product and removed together with it. Price overrides, when present, take
// precedence over the parent product's price columns.
type Variant struct {
	ID         int64             `json:"id"`
	ProductID  int64             `json:"product_id"`
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes"`
	Quantity   int               `json:"quantity"`
	Wholesale  *money.Amount     `json:"wholesale,omitempty"`
	Retail     *money.Amount     `json:"retail,omitempty"`
	Club       *money.Amount     `json:"club,omitempty"`
}

// HasVariants reports whether stock and overrides are tracked per variant.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// TotalQuantity sums on-hand stock across variants, or returns the product
// level quantity for variant-less products.
func (p *Product) TotalQuantity() int {
	if !p.HasVariants() {
		return p.Quantity
	}
	total := 0
	for _, v := range p.Variants {
		total += v.Quantity
	}
	return total
}
