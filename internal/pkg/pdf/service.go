// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/music-storefront/internal/config"
	"github.com/your-org/music-storefront/internal/domain/order"
	"github.com/your-org/music-storefront/internal/domain/pricing"
)

// Service renders printable invoices from store orders
type Service struct {
	config *config.Config
	tmpl   *template.Template
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl: template.Must(template.New("invoice").Funcs(template.FuncMap{
			"money": pricing.FormatCurrency,
		}).Parse(invoiceTemplate)),
		now: time.Now,
	}
}

// InvoiceData is the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	PrintedAt     string
	Order         *order.Order
	ItemCount     int
	Company       CompanyInfo
}

// CompanyInfo is the seller block printed at the top
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
}

// RenderInvoiceHTML renders the printable invoice page for an order
func (s *Service) RenderInvoiceHTML(o *order.Order) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("no order to render")
	}

	itemCount := 0
	for _, it := range o.Items {
		itemCount += it.Quantity
	}

	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("%d", o.ID),
		PrintedAt:     s.now().Format("January 2, 2006 15:04"),
		Order:         o,
		ItemCount:     itemCount,
		Company: CompanyInfo{
			Name:    s.config.Invoice.CompanyName,
			Address: s.config.Invoice.CompanyAddress,
			Email:   s.config.Invoice.CompanyEmail,
		},
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateInvoice converts the rendered invoice to PDF. It needs the
// wkhtmltopdf binary on PATH or in WKHTMLTOPDF_PATH.
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderInvoiceHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Title.Set(fmt.Sprintf("Invoice #%d", o.ID))

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice #{{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        h1 { color: #2563eb; }
        .seller { margin-bottom: 24px; border-bottom: 2px solid #eee; padding-bottom: 12px; }
        .items { width: 100%; border-collapse: collapse; margin: 20px 0; }
        .items th, .items td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        .items th { background-color: #f8f9fa; }
        .num { text-align: right; }
        .thumb { height: 32px; margin-right: 8px; vertical-align: middle; }
        .total { font-size: 18px; font-weight: bold; text-align: right; }
        .footer { margin-top: 40px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="seller">
        <strong>{{.Company.Name}}</strong>
        {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
        {{if .Company.Email}}<p>{{.Company.Email}}</p>{{end}}
    </div>

    <h1>Invoice #{{.InvoiceNumber}}</h1>
    <p><strong>Date:</strong> {{.Order.CreatedAt.Format "January 2, 2006 15:04"}}</p>
    <p><strong>Status:</strong> {{.Order.Status}}</p>

    <table class="items">
        <thead>
            <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th></tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{with .Image}}<img class="thumb" src="{{.}}">{{end}}{{if .ProductName}}{{.ProductName}}{{else}}Deleted Product{{end}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .Price}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <p class="total">Items: {{.ItemCount}} &middot; Total: {{money .Order.TotalPrice}}</p>

    <div class="footer">
        <p>Printed {{.PrintedAt}}. Thank you for shopping with us!</p>
    </div>
</body>
</html>
`
