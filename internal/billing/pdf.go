package billing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/winside-retail/backoffice/internal/customers"
	"github.com/winside-retail/backoffice/web"
)

// PDFClient converts rendered HTML into a PDF document.
type PDFClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// PDFRenderer renders invoices into PDF documents via an HTML template and
// a Gotenberg-compatible conversion client.
type PDFRenderer struct {
	client PDFClient
	tmpl   *template.Template
}

func NewPDFRenderer(client PDFClient) (*PDFRenderer, error) {
	tmpl := template.New("invoice_pdf.html").Funcs(template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	})
	tmpl, err := tmpl.ParseFS(web.Templates, "templates/reports/invoice_pdf.html")
	if err != nil {
		return nil, fmt.Errorf("billing: parse invoice template: %w", err)
	}
	return &PDFRenderer{client: client, tmpl: tmpl}, nil
}

type invoicePDFData struct {
	Invoice  *Invoice
	Customer *customers.Customer
}

func (r *PDFRenderer) Render(ctx context.Context, inv *Invoice, customer *customers.Customer) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, invoicePDFData{Invoice: inv, Customer: customer}); err != nil {
		return nil, fmt.Errorf("billing: render invoice html: %w", err)
	}
	pdf, err := r.client.RenderHTML(ctx, buf.String())
	if err != nil {
		return nil, fmt.Errorf("billing: convert invoice pdf: %w", err)
	}
	return pdf, nil
}
