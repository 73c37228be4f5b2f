package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winside-retail/backoffice/internal/catalog/products"
	"github.com/winside-retail/backoffice/internal/customers"
	"github.com/winside-retail/backoffice/internal/money"
)

func testProduct() *products.Product {
	return &products.Product{
		Article:   "TS-100",
		Wholesale: 1000,
		Retail:    1500,
		Club:      1300,
	}
}

func TestResolveUsesTierColumn(t *testing.T) {
	p := testProduct()

	got, err := Resolve(customers.TierRetail, p, nil)
	require.NoError(t, err)
	require.Equal(t, money.Amount(1500), got)

	got, err = Resolve(customers.TierWholesale, p, nil)
	require.NoError(t, err)
	require.Equal(t, money.Amount(1000), got)

	got, err = Resolve(customers.TierClub, p, nil)
	require.NoError(t, err)
	require.Equal(t, money.Amount(1300), got)
}

func TestResolveVariantOverrideWins(t *testing.T) {
	p := testProduct()
	override := money.Amount(1250)
	v := &products.Variant{SKU: "TS-100-M", Wholesale: &override}

	got, err := Resolve(customers.TierWholesale, p, v)
	require.NoError(t, err)
	require.Equal(t, money.Amount(1250), got)

	// No retail override on the variant: fall back to the product column.
	got, err = Resolve(customers.TierRetail, p, v)
	require.NoError(t, err)
	require.Equal(t, money.Amount(1500), got)
}

func TestResolveUnknownTier(t *testing.T) {
	_, err := Resolve(customers.Tier("vip"), testProduct(), nil)
	require.ErrorIs(t, err, customers.ErrUnknownTier)
}
