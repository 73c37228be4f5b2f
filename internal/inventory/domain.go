// Package inventory tracks on-hand stock per product/variant and records
// every adjustment with its reason and actor.
package inventory

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("inventory: stock level not found")
)

// ApplyDelta computes the stock level after a signed adjustment. Levels
// never go negative: an over-withdrawal floors at zero and the clamping is
// reported to the caller rather than treated as an error.
func ApplyDelta(current, delta int) (newQty int, clamped bool) {
	newQty = current + delta
	if newQty < 0 {
		return 0, true
	}
	return newQty, false
}

// StockLevel is one row of on-hand stock. Variant-less products have exactly
// one row with a nil VariantID.
type StockLevel struct {
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Adjustment is the persisted record of one stock delta application.
type Adjustment struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	ProductID int64     `json:"product_id"`
	VariantID *int64    `json:"variant_id,omitempty"`
	Delta     int       `json:"delta"`
	Previous  int       `json:"previous_quantity"`
	New       int       `json:"new_quantity"`
	Clamped   bool      `json:"clamped"`
	Reason    string    `json:"reason"`
	ActorID   int64     `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LowStockItem is one entry of the low stock report.
type LowStockItem struct {
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Article   string `json:"article"`
	Title     string `json:"title"`
	SKU       string `json:"sku,omitempty"`
	Brand     string `json:"brand"`
	Quantity  int    `json:"quantity"`
}
