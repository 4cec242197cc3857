package reporting

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/rainline/rainline/internal/billing/invoices"
)

type stubRepo struct {
	list      []invoices.InvoiceWithCustomer
	listCalls int
}

func (r *stubRepo) List(ctx context.Context, req invoices.ListInvoicesRequest) ([]invoices.InvoiceWithCustomer, int, error) {
	r.listCalls++
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	if req.Offset >= len(r.list) {
		return nil, len(r.list), nil
	}
	page := r.list[req.Offset:]
	if len(page) > limit {
		page = page[:limit]
	}
	return page, len(r.list), nil
}

func (r *stubRepo) WithTx(ctx context.Context, fn func(context.Context, invoices.Repository) error) error {
	return fn(ctx, r)
}

func (r *stubRepo) Get(ctx context.Context, id int64) (*invoices.Invoice, error) {
	return nil, invoices.ErrNotFound
}

func (r *stubRepo) Create(ctx context.Context, inv invoices.Invoice) (int64, error) { return 0, nil }

func (r *stubRepo) Update(ctx context.Context, id int64, updates map[string]any) error { return nil }

func (r *stubRepo) InsertItem(ctx context.Context, item invoices.Item) (int64, error) { return 0, nil }

func (r *stubRepo) DeleteItems(ctx context.Context, invoiceID int64) error { return nil }

func (r *stubRepo) UpdateStatus(ctx context.Context, inv *invoices.Invoice) error { return nil }

func (r *stubRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *stubRepo) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	return "", nil
}

func fixtureRepo(now time.Time) *stubRepo {
	return &stubRepo{list: []invoices.InvoiceWithCustomer{
		{Invoice: invoices.Invoice{ID: 1, Status: invoices.StatusSent, DueDate: now.AddDate(0, 0, -1), TotalAmount: 500}},
		{Invoice: invoices.Invoice{ID: 2, Status: invoices.StatusPaid, DueDate: now.AddDate(0, 0, -30), TotalAmount: 1000}},
	}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatsCachesRecomputedValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := fixtureRepo(time.Now())
	svc := NewService(testLogger(), repo, client, time.Minute)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalInvoices)
	require.Equal(t, 500.0, stats.TotalOutstanding)
	require.Equal(t, 1000.0, stats.TotalPaid)
	require.Equal(t, 1, stats.OverdueCount)
	require.Equal(t, 1, repo.listCalls)
	require.True(t, mr.Exists(statsCacheKey))

	// second read is served from the cache
	again, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, stats, again)
	require.Equal(t, 1, repo.listCalls)
}

func TestStatsRecomputesAfterExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := fixtureRepo(time.Now())
	svc := NewService(testLogger(), repo, client, time.Minute)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls)
}

func TestRefreshRewritesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := fixtureRepo(time.Now())
	svc := NewService(testLogger(), repo, client, time.Minute)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)
	require.True(t, mr.Exists(statsCacheKey))

	// refresh bypasses the cached value and recomputes
	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls)
}

func TestStatsCoverWholeCollection(t *testing.T) {
	now := time.Now()
	repo := &stubRepo{}
	for i := 0; i < 1500; i++ {
		repo.list = append(repo.list, invoices.InvoiceWithCustomer{
			Invoice: invoices.Invoice{ID: int64(i + 1), Status: invoices.StatusSent, DueDate: now.AddDate(0, 0, 7), TotalAmount: 1},
		})
	}
	svc := NewService(testLogger(), repo, nil, time.Minute)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1500, stats.TotalInvoices)
	require.Equal(t, 1500.0, stats.TotalOutstanding)
	require.Zero(t, stats.OverdueCount)
	// the recompute paged through the store rather than truncating one fetch
	require.GreaterOrEqual(t, repo.listCalls, 3)
}

func TestStatsWithoutCache(t *testing.T) {
	repo := fixtureRepo(time.Now())
	svc := NewService(testLogger(), repo, nil, time.Minute)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalInvoices)

	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls)
}
