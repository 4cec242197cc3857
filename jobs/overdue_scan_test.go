package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rainline/rainline/internal/billing/invoices"
)

type scanRepo struct {
	list   []invoices.InvoiceWithCustomer
	served int
}

func (r *scanRepo) List(ctx context.Context, req invoices.ListInvoicesRequest) ([]invoices.InvoiceWithCustomer, int, error) {
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
	r.served += len(page)
	return page, len(r.list), nil
}

func (r *scanRepo) WithTx(ctx context.Context, fn func(context.Context, invoices.Repository) error) error {
	return fn(ctx, r)
}

func (r *scanRepo) Get(ctx context.Context, id int64) (*invoices.Invoice, error) {
	return nil, invoices.ErrNotFound
}

func (r *scanRepo) Create(ctx context.Context, inv invoices.Invoice) (int64, error) { return 0, nil }

func (r *scanRepo) Update(ctx context.Context, id int64, updates map[string]any) error { return nil }

func (r *scanRepo) InsertItem(ctx context.Context, item invoices.Item) (int64, error) { return 0, nil }

func (r *scanRepo) DeleteItems(ctx context.Context, invoiceID int64) error { return nil }

func (r *scanRepo) UpdateStatus(ctx context.Context, inv *invoices.Invoice) error { return nil }

func (r *scanRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *scanRepo) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	return "", nil
}

func TestOverdueScanWalksWholeCollection(t *testing.T) {
	now := time.Now()
	repo := &scanRepo{}
	for i := 0; i < 1200; i++ {
		repo.list = append(repo.list, invoices.InvoiceWithCustomer{
			Invoice: invoices.Invoice{
				ID:          int64(i + 1),
				Number:      fmt.Sprintf("INV-202601-%04d", i+1),
				Status:      invoices.StatusSent,
				DueDate:     now.AddDate(0, 0, -3),
				TotalAmount: 100,
			},
		})
	}

	job := NewOverdueScanJob(repo, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, job.Handle(context.Background(), NewOverdueScanTask()))
	// every invoice was visited, not just the first fetch page
	require.Equal(t, 1200, repo.served)
}
