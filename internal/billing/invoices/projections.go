package invoices

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Read-side projections over a fetched invoice collection. Everything here is
// pure: the functions copy or reduce, they never mutate the store.

// SortKey enumerates the list screen sort columns.
type SortKey string

const (
	SortByCreatedAt SortKey = "created_at"
	SortByName      SortKey = "name"
	SortByStatus    SortKey = "status"
)

var foldCaser = cases.Fold()

// Search returns the invoices whose number, customer company or contact
// person contains the query, compared case-insensitively. An empty query
// returns the input unchanged.
func Search(list []InvoiceWithCustomer, query string) []InvoiceWithCustomer {
	query = strings.TrimSpace(query)
	if query == "" {
		return list
	}
	needle := foldCaser.String(query)
	out := make([]InvoiceWithCustomer, 0, len(list))
	for _, inv := range list {
		haystack := foldCaser.String(inv.Number + " " + inv.CompanyName + " " + inv.ContactPerson)
		if strings.Contains(haystack, needle) {
			out = append(out, inv)
		}
	}
	return out
}

// FilterStatus keeps invoices matching the stored status. "all" or an empty
// filter returns the input unchanged.
func FilterStatus(list []InvoiceWithCustomer, status string) []InvoiceWithCustomer {
	if status == "" || status == "all" {
		return list
	}
	out := make([]InvoiceWithCustomer, 0, len(list))
	for _, inv := range list {
		if string(inv.Status) == status {
			out = append(out, inv)
		}
	}
	return out
}

// SortBy orders a copy of the list by the given key. String keys compare
// case-folded; created_at descending is the list screen default.
func SortBy(list []InvoiceWithCustomer, key SortKey, descending bool) []InvoiceWithCustomer {
	out := make([]InvoiceWithCustomer, len(list))
	copy(out, list)

	coll := collate.New(language.Und, collate.Loose)
	less := func(a, b InvoiceWithCustomer) bool {
		switch key {
		case SortByName:
			return coll.CompareString(a.CompanyName, b.CompanyName) < 0
		case SortByStatus:
			return coll.CompareString(string(a.Status), string(b.Status)) < 0
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// DaysOverdue derives how many whole or partial days the invoice is past its
// due date. Paid and cancelled invoices are never overdue.
func DaysOverdue(inv *Invoice, now time.Time) int {
	if inv.Status == StatusPaid || inv.Status == StatusCancelled {
		return 0
	}
	elapsed := now.Sub(inv.DueDate)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Ceil(elapsed.Hours() / 24))
}

// Stats summarises the dashboard aggregates over the full collection.
type Stats struct {
	TotalInvoices    int     `json:"total_invoices"`
	TotalOutstanding float64 `json:"total_outstanding"`
	TotalPaid        float64 `json:"total_paid"`
	OverdueCount     int     `json:"overdue_count"`
}

// Reduce computes the dashboard stats as of now.
func Reduce(list []InvoiceWithCustomer, now time.Time) Stats {
	stats := Stats{TotalInvoices: len(list)}
	for i := range list {
		inv := &list[i].Invoice
		switch inv.Status {
		case StatusPaid:
			stats.TotalPaid += inv.TotalAmount
		case StatusCancelled:
			// cancelled invoices count toward neither bucket
		default:
			stats.TotalOutstanding += inv.TotalAmount
		}
		if DaysOverdue(inv, now) > 0 {
			stats.OverdueCount++
		}
	}
	return stats
}
