// Package shared holds the monetary arithmetic used across billing modules.
package shared

// Totals aggregates the derived monetary fields of an invoice.
type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	TaxAmount      float64
	Total          float64
}

// ItemTotal computes the line total for a quantity at a unit price.
func ItemTotal(quantity int, unitPrice float64) float64 {
	return float64(quantity) * unitPrice
}

// InvoiceTotals reduces line totals into invoice aggregates. The tax rate is a
// percentage applied after the discount; an empty list yields all zeros.
func InvoiceTotals(lineTotals []float64, taxRatePercent, discountAmount float64) Totals {
	var subtotal float64
	for _, t := range lineTotals {
		subtotal += t
	}
	taxable := subtotal - discountAmount
	taxAmount := taxable * taxRatePercent / 100
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		Total:          taxable + taxAmount,
	}
}
