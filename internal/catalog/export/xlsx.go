// Package export renders catalog listings as spreadsheet downloads.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/winside-retail/backoffice/internal/catalog/products"
)

const sheetName = "Catalog"

var headers = []string{"Article", "Title", "Brand", "SKU", "Attributes", "Wholesale", "Retail", "Club", "On Hand", "Archived"}

// XLSXExporter writes product catalogs as XLSX workbooks, one row per
// variant (or per product for variant-less products).
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) WriteCatalog(items []products.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, title := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, err
		}
	}

	rowNum := 2
	for i := range items {
		p := &items[i]
		if !p.HasVariants() {
			if err := writeRow(f, rowNum, p, nil); err != nil {
				return nil, err
			}
			rowNum++
			continue
		}
		for j := range p.Variants {
			if err := writeRow(f, rowNum, p, &p.Variants[j]); err != nil {
				return nil, err
			}
			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, p *products.Product, v *products.Variant) error {
	sku := ""
	attrs := ""
	qty := p.Quantity
	wholesale := p.Wholesale
	retail := p.Retail
	club := p.Club
	if v != nil {
		sku = v.SKU
		attrs = formatAttributes(v.Attributes)
		qty = v.Quantity
		if v.Wholesale != nil {
			wholesale = *v.Wholesale
		}
		if v.Retail != nil {
			retail = *v.Retail
		}
		if v.Club != nil {
			club = *v.Club
		}
	}
	values := []any{
		p.Article, p.Title, p.Brand, sku, attrs,
		wholesale.String(), retail.String(), club.String(),
		qty, p.Archived,
	}
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(attrs))
	for k, v := range attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	// Map iteration order is unstable, keep output deterministic.
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
