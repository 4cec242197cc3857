package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rainline/rainline/internal/billing/customers"
	"github.com/rainline/rainline/internal/billing/invoices"
)

func TestRenderInvoice(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	desc := "16mm mainline, 100m roll"
	doc := InvoiceDocument{
		Invoice: &invoices.Invoice{
			Number:      "INV-202607-0042",
			Status:      invoices.StatusSent,
			IssueDate:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			DueDate:     time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
			Subtotal:    1250,
			TaxRate:     16,
			TaxAmount:   200,
			TotalAmount: 1450,
			Items: []invoices.Item{
				{Name: "Drip tape", Description: &desc, Quantity: 5, Unit: invoices.UnitMeter, UnitPrice: 250, Total: 1250},
			},
		},
		Customer:    &customers.Customer{CompanyName: "GreenGrow Ltd", ContactPerson: "A. Mwangi"},
		GeneratedAt: time.Date(2026, 7, 2, 9, 30, 0, 0, time.UTC),
	}

	html, err := r.RenderInvoice(doc)
	require.NoError(t, err)

	out := string(html)
	require.Contains(t, out, "INV-202607-0042")
	require.Contains(t, out, "GreenGrow Ltd")
	require.Contains(t, out, "Drip tape")
	require.Contains(t, out, "16mm mainline, 100m roll")
	require.Contains(t, out, "1450.00")
	require.Contains(t, out, "2026-07-31")
	// no discount line when the discount is zero
	require.NotContains(t, out, "Discount")
}

func TestRenderInvoiceWithoutCustomer(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.RenderInvoice(InvoiceDocument{
		Invoice:     &invoices.Invoice{Number: "INV-202607-0001", Status: invoices.StatusDraft},
		GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NotContains(t, string(html), "Billed to")
}

func TestGotenbergConvertHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		_, header, err := r.FormFile("files")
		require.NoError(t, err)
		require.Equal(t, "index.html", header.Filename)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	pdf, err := client.ConvertHTML(context.Background(), []byte("<html></html>"))
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(pdf))
}
