package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/winside-retail/backoffice/internal/catalog/products"
	"github.com/winside-retail/backoffice/internal/money"
)

func TestWriteCatalogRowsPerVariant(t *testing.T) {
	override := money.Amount(1250)
	items := []products.Product{
		{
			ID:        1,
			Article:   "TS-100",
			Title:     "Tee",
			Brand:     "winside",
			Wholesale: 1000,
			Retail:    1500,
			Club:      1300,
			Variants: []products.Variant{
				{SKU: "TS-100-S", Attributes: map[string]string{"size": "S"}, Quantity: 4},
				{SKU: "TS-100-M", Attributes: map[string]string{"size": "M"}, Quantity: 2, Wholesale: &override},
			},
		},
		{
			ID:       2,
			Article:  "MUG-1",
			Title:    "Mug",
			Brand:    "winside",
			Retail:   900,
			Quantity: 7,
		},
	}

	out, err := NewXLSXExporter().WriteCatalog(items)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Catalog")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 2 variants + 1 variant-less product

	require.Equal(t, "Article", rows[0][0])
	require.Equal(t, "TS-100-S", rows[1][3])
	require.Equal(t, "size=S", rows[1][4])
	require.Equal(t, "10.00", rows[1][5])
	require.Equal(t, "12.50", rows[2][5]) // variant wholesale override
	require.Equal(t, "MUG-1", rows[3][0])
	require.Equal(t, "7", rows[3][8])
}
