// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Service renders order invoices
type Service struct {
	company  CompanyInfo
	currency string
	location *time.Location
	now      func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		company: CompanyInfo{
			Name:    cfg.App.CompanyName,
			Address: cfg.App.CompanyAddress,
			Phone:   cfg.App.CompanyPhone,
			Email:   cfg.App.CompanyEmail,
			Website: cfg.App.CompanyWebsite,
		},
		currency: cfg.Commerce.Currency,
		location: cfg.Location(),
		now:      time.Now,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	OrderDate     string
	Currency      string
	Order         *order.Order
	Company       CompanyInfo
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"isZero": func(d decimal.Decimal) bool { return d.IsZero() },
}).Parse(invoiceTemplate))

// InvoiceFilename is the download name for an order's invoice
func InvoiceFilename(o *order.Order) string {
	return fmt.Sprintf("invoice-%s.pdf", o.OrderNumber)
}

// RenderHTML fills the invoice template for an order
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   s.now().In(s.location).Format("January 2, 2006"),
		OrderDate:     o.CreatedAt.In(s.location).Format("January 2, 2006"),
		Currency:      s.currency,
		Order:         o,
		Company:       s.company,
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateInvoice renders the invoice and converts it with wkhtmltopdf
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

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
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .company-info, .invoice-info { flex: 1; }
        .invoice-info { text-align: right; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; margin-bottom: 10px; }
        .details td { padding: 5px 0; vertical-align: top; }
        .details .label { font-weight: bold; width: 150px; }
        .section-title { font-size: 16px; font-weight: bold; margin-bottom: 10px; color: #374151; }
        .items-table { width: 100%; border-collapse: collapse; margin: 30px 0; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 12px 8px; text-align: left; }
        .items-table th { background-color: #f8f9fa; }
        .num { text-align: right !important; width: 100px; }
        .totals { float: right; width: 300px; }
        .totals table { width: 100%; border-collapse: collapse; }
        .totals td { padding: 8px; border-bottom: 1px solid #eee; }
        .total-row { font-size: 18px; font-weight: bold; }
        .footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
        .badge { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; text-transform: uppercase; }
        .badge-paid { background-color: #dcfce7; color: #166534; }
        .badge-pending { background-color: #fef3c7; color: #92400e; }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Company.Name}}</h1>
            <p>{{.Company.Address}}</p>
            <p>Phone: {{.Company.Phone}}</p>
            <p>Email: {{.Company.Email}}</p>
            <p>{{.Company.Website}}</p>
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
        </div>
    </div>

    <table class="details">
        <tr>
            <td class="label">Order Date:</td><td>{{.OrderDate}}</td>
            <td class="label">Payment:</td>
            <td>
                {{.Order.PaymentMethod}}{{if .Order.PaymentNumber}} ({{.Order.PaymentNumber}}){{end}}
                <span class="badge {{if eq .Order.PaymentStatus "paid"}}badge-paid{{else}}badge-pending{{end}}">{{.Order.PaymentStatus}}</span>
            </td>
        </tr>
        <tr>
            <td class="label">Order Status:</td><td>{{.Order.OrderStatus}}</td>
            <td class="label">Currency:</td><td>{{.Currency}}</td>
        </tr>
        {{if .Order.TrackingNumber}}<tr><td class="label">Tracking #:</td><td>{{.Order.TrackingNumber}}</td></tr>{{end}}
    </table>

    <div>
        <div class="section-title">Ship To:</div>
        <p><strong>{{.Order.ShippingAddress.Name}}</strong></p>
        <p>{{.Order.ShippingAddress.Address}}</p>
        {{if .Order.ShippingAddress.Landmark}}<p>Near {{.Order.ShippingAddress.Landmark}}</p>{{end}}
        <p>{{.Order.ShippingAddress.Area}}, {{.Order.ShippingAddress.District}} {{.Order.ShippingAddress.PostalCode}}</p>
        <p>Phone: {{.Order.ShippingAddress.Phone}}</p>
        {{if .Order.Email}}<p>Email: {{.Order.Email}}</p>{{end}}
    </div>

    <table class="items-table">
        <thead>
            <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .Price}}</td>
                <td class="num">{{money .Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr><td>Subtotal:</td><td class="num">{{money .Order.Subtotal}}</td></tr>
            <tr><td>Shipping:</td><td class="num">{{if isZero .Order.ShippingCost}}Free{{else}}{{money .Order.ShippingCost}}{{end}}</td></tr>
            <tr class="total-row"><td>Total:</td><td class="num">{{.Currency}} {{money .Order.Total}}</td></tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with {{.Company.Name}}!</p>
        <p>If you have any questions about this invoice, please contact us at {{.Company.Email}} or {{.Company.Phone}}</p>
    </div>
</body>
</html>
`
