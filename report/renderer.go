package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/rainline/rainline/internal/billing/customers"
	"github.com/rainline/rainline/internal/billing/invoices"
)

// InvoiceDocument is the data handed to the printable invoice template.
type InvoiceDocument struct {
	Invoice     *invoices.Invoice
	Customer    *customers.Customer
	GeneratedAt time.Time
}

// Renderer produces the printable HTML representation of an invoice.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the built-in invoice template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	}).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parse invoice template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderInvoice returns the printable HTML document for an invoice.
func (r *Renderer) RenderInvoice(doc InvoiceDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("report: render invoice %s: %w", doc.Invoice.Number, err)
	}
	return buf.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Invoice.Number}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 40px; color: #222; }
h1 { font-size: 22px; margin-bottom: 0; }
.meta { color: #555; margin-bottom: 24px; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #ddd; }
th { background: #f5f5f5; }
td.num, th.num { text-align: right; }
.totals { margin-top: 16px; width: 320px; margin-left: auto; }
.totals td { border: none; padding: 3px 8px; }
.totals tr.grand td { border-top: 2px solid #222; font-weight: bold; }
.status { text-transform: uppercase; letter-spacing: 1px; }
</style>
</head>
<body>
<h1>Invoice {{.Invoice.Number}}</h1>
<p class="meta">
Status: <span class="status">{{.Invoice.Status}}</span><br>
Issued: {{date .Invoice.IssueDate}} &middot; Due: {{date .Invoice.DueDate}}<br>
{{if .Customer}}Billed to: {{.Customer.CompanyName}}{{if .Customer.ContactPerson}} ({{.Customer.ContactPerson}}){{end}}{{end}}
</p>
<table>
<thead>
<tr><th>Item</th><th class="num">Qty</th><th>Unit</th><th class="num">Unit price</th><th class="num">Total</th></tr>
</thead>
<tbody>
{{range .Invoice.Items}}
<tr>
<td>{{.Name}}{{if .Description}}<br><small>{{.Description}}</small>{{end}}</td>
<td class="num">{{.Quantity}}</td>
<td>{{.Unit}}</td>
<td class="num">{{money .UnitPrice}}</td>
<td class="num">{{money .Total}}</td>
</tr>
{{end}}
</tbody>
</table>
<table class="totals">
<tr><td>Subtotal</td><td class="num">{{money .Invoice.Subtotal}}</td></tr>
{{if .Invoice.DiscountAmount}}<tr><td>Discount</td><td class="num">-{{money .Invoice.DiscountAmount}}</td></tr>{{end}}
<tr><td>Tax ({{.Invoice.TaxRate}}%)</td><td class="num">{{money .Invoice.TaxAmount}}</td></tr>
<tr class="grand"><td>Total</td><td class="num">{{money .Invoice.TotalAmount}}</td></tr>
</table>
{{if .Invoice.PaymentTerms}}<p>Payment terms: {{.Invoice.PaymentTerms}}</p>{{end}}
{{if .Invoice.PaymentDetails}}<p>{{.Invoice.PaymentDetails}}</p>{{end}}
{{if .Invoice.Notes}}<p>{{.Invoice.Notes}}</p>{{end}}
<p class="meta"><small>Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}</small></p>
</body>
</html>`
