package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixtureList(now time.Time) []InvoiceWithCustomer {
	mk := func(id int64, number, company, contact string, status Status, due time.Time, total float64, created time.Time) InvoiceWithCustomer {
		return InvoiceWithCustomer{
			Invoice: Invoice{
				ID:          id,
				Number:      number,
				Status:      status,
				DueDate:     due,
				TotalAmount: total,
				CreatedAt:   created,
			},
			CompanyName:   company,
			ContactPerson: contact,
		}
	}
	return []InvoiceWithCustomer{
		mk(1, "INV-202601-0001", "GreenGrow Ltd", "Ana Petrova", StatusSent, now.AddDate(0, 0, -1), 500, now.AddDate(0, 0, -10)),
		mk(2, "INV-202601-0002", "AquaFarm", "Boris Ivanov", StatusPaid, now.AddDate(0, 0, -30), 1000, now.AddDate(0, 0, -8)),
		mk(3, "INV-202602-0003", "Drip Masters", "Carla Diaz", StatusDraft, now.AddDate(0, 0, 15), 250, now.AddDate(0, 0, -2)),
		mk(4, "INV-202602-0004", "greengrow ltd", "Dan Chen", StatusCancelled, now.AddDate(0, 0, -5), 400, now.AddDate(0, 0, -1)),
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	now := time.Now()
	list := fixtureList(now)

	byCompany := Search(list, "GREENGROW")
	require.Len(t, byCompany, 2)

	byNumber := Search(list, "202602-0003")
	require.Len(t, byNumber, 1)
	require.Equal(t, int64(3), byNumber[0].ID)

	byContact := Search(list, "petrova")
	require.Len(t, byContact, 1)

	require.Len(t, Search(list, ""), 4)
	require.Empty(t, Search(list, "no such thing"))
}

func TestFilterStatus(t *testing.T) {
	list := fixtureList(time.Now())

	require.Len(t, FilterStatus(list, "all"), 4)
	require.Len(t, FilterStatus(list, ""), 4)

	paid := FilterStatus(list, "paid")
	require.Len(t, paid, 1)
	require.Equal(t, int64(2), paid[0].ID)
}

func TestSortByIsIdempotent(t *testing.T) {
	list := fixtureList(time.Now())

	once := SortBy(list, SortByName, false)
	twice := SortBy(once, SortByName, false)
	require.Equal(t, once, twice)

	desc := SortBy(list, SortByCreatedAt, true)
	require.Equal(t, desc, SortBy(desc, SortByCreatedAt, true))
	// newest first
	require.Equal(t, int64(4), desc[0].ID)
	require.Equal(t, int64(1), desc[len(desc)-1].ID)
}

func TestSortByNameFoldsCase(t *testing.T) {
	list := fixtureList(time.Now())
	sorted := SortBy(list, SortByName, false)
	// "GreenGrow Ltd" and "greengrow ltd" sort together regardless of case
	var companies []string
	for _, inv := range sorted {
		companies = append(companies, inv.CompanyName)
	}
	require.Equal(t, []string{"AquaFarm", "Drip Masters", "GreenGrow Ltd", "greengrow ltd"}, companies)
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	sent := &Invoice{Status: StatusSent, DueDate: yesterday}
	require.Equal(t, 1, DaysOverdue(sent, now))

	paid := &Invoice{Status: StatusPaid, DueDate: yesterday}
	require.Equal(t, 0, DaysOverdue(paid, now))

	cancelled := &Invoice{Status: StatusCancelled, DueDate: yesterday}
	require.Equal(t, 0, DaysOverdue(cancelled, now))

	notDue := &Invoice{Status: StatusSent, DueDate: now.AddDate(0, 0, 3)}
	require.Equal(t, 0, DaysOverdue(notDue, now))

	longOverdue := &Invoice{Status: StatusSent, DueDate: now.AddDate(0, 0, -10)}
	require.Equal(t, 10, DaysOverdue(longOverdue, now))
}

func TestReduceStats(t *testing.T) {
	now := time.Now()
	stats := Reduce(fixtureList(now), now)

	require.Equal(t, 4, stats.TotalInvoices)
	// sent + draft count as outstanding; paid and cancelled do not
	require.Equal(t, 750.0, stats.TotalOutstanding)
	require.Equal(t, 1000.0, stats.TotalPaid)
	// only the sent invoice with a past due date is overdue
	require.Equal(t, 1, stats.OverdueCount)
}

func TestReduceEmpty(t *testing.T) {
	stats := Reduce(nil, time.Now())
	require.Equal(t, Stats{}, stats)
}
