package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemTotal(t *testing.T) {
	require.Equal(t, 100.0, ItemTotal(2, 50))
	require.Equal(t, 0.0, ItemTotal(0, 99.5))
	require.Equal(t, 0.0, ItemTotal(5, 0))
	require.InDelta(t, 29.85, ItemTotal(3, 9.95), 1e-9)
}

func TestInvoiceTotals(t *testing.T) {
	tests := []struct {
		name       string
		lineTotals []float64
		taxRate    float64
		discount   float64
		want       Totals
	}{
		{
			name: "empty list is all zeros",
			taxRate: 16,
			want: Totals{},
		},
		{
			name:       "tax and discount compose",
			lineTotals: []float64{600, 400},
			taxRate:    16,
			discount:   100,
			want: Totals{
				Subtotal:       1000,
				DiscountAmount: 100,
				TaxAmount:      144,
				Total:          1044,
			},
		},
		{
			name:       "no discount",
			lineTotals: []float64{100},
			taxRate:    10,
			want: Totals{
				Subtotal:  100,
				TaxAmount: 10,
				Total:     110,
			},
		},
		{
			name:       "zero rate",
			lineTotals: []float64{250, 250},
			want: Totals{
				Subtotal: 500,
				Total:    500,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InvoiceTotals(tt.lineTotals, tt.taxRate, tt.discount)
			require.InDelta(t, tt.want.Subtotal, got.Subtotal, 1e-9)
			require.InDelta(t, tt.want.DiscountAmount, got.DiscountAmount, 1e-9)
			require.InDelta(t, tt.want.TaxAmount, got.TaxAmount, 1e-9)
			require.InDelta(t, tt.want.Total, got.Total, 1e-9)
		})
	}
}

func TestSubtotalIsSumOfLineTotals(t *testing.T) {
	lineTotals := []float64{12.5, 0, 87.3, 1000}
	var sum float64
	for _, v := range lineTotals {
		sum += v
	}
	got := InvoiceTotals(lineTotals, 19, 10)
	require.InDelta(t, sum, got.Subtotal, 1e-9)
}
