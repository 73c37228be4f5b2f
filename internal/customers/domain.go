package customers

import (
	"errors"
	"time"

	"github.com/winside-retail/backoffice/internal/money"
)

// Tier classifies a customer and selects which price column applies.
type Tier string

const (
	TierRetail    Tier = "retail"
	TierWholesale Tier = "wholesale"
	TierClub      Tier = "club"
)

// ErrUnknownTier indicates a tier value outside the closed enumeration.
var ErrUnknownTier = errors.New("customers: unknown pricing tier")

// ParseTier validates a tier value at a boundary. Unlike the price column
// lookup itself, no silent retail fallback is applied here.
func ParseTier(v string) (Tier, error) {
	switch Tier(v) {
	case TierRetail, TierWholesale, TierClub:
		return Tier(v), nil
	default:
		return "", ErrUnknownTier
	}
}

// Valid reports whether the tier is one of the closed set.
func (t Tier) Valid() bool {
	_, err := ParseTier(string(t))
	return err == nil
}

// Customer represents a customer record.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Brand     string    `json:"brand"`
	Tier      Tier      `json:"tier"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// TotalOrders and TotalSpent are informational aggregates refreshed by a
	// background job, never maintained transactionally from invoice writes.
	TotalOrders int64        `json:"total_orders"`
	TotalSpent  money.Amount `json:"total_spent"`
}

var (
	ErrNotFound      = errors.New("customers: record not found")
	ErrAlreadyExists = errors.New("customers: record already exists")
)
