package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/rainline/rainline/internal/billing/invoices"
)

// OverdueScanJob lists the invoice collection, derives the overdue set, and
// enqueues one reminder per overdue invoice.
type OverdueScanJob struct {
	Repo   invoices.Repository
	Client *Client
	Logger *slog.Logger
	clock  func() time.Time
}

// NewOverdueScanJob wires dependencies for the scan handler.
func NewOverdueScanJob(repo invoices.Repository, client *Client, logger *slog.Logger) *OverdueScanJob {
	return &OverdueScanJob{
		Repo:   repo,
		Client: client,
		Logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes TaskOverdueScan tasks.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("overdue scan: handler not configured")
	}

	list, err := invoices.ListAll(ctx, j.Repo, invoices.ListInvoicesRequest{})
	if err != nil {
		return err
	}

	now := j.clock()
	reminded := 0
	for i := range list {
		days := invoices.DaysOverdue(&list[i].Invoice, now)
		if days <= 0 {
			continue
		}
		if j.Client != nil {
			if _, err := j.Client.EnqueueReminder(ctx, ReminderPayload{
				InvoiceID:   list[i].ID,
				Number:      list[i].Number,
				DaysOverdue: days,
			}); err != nil {
				j.Logger.Warn("enqueue reminder", slog.Int64("invoice_id", list[i].ID), slog.Any("error", err))
				continue
			}
		}
		reminded++
	}

	j.Logger.Info("overdue scan complete",
		slog.Int("scanned", len(list)),
		slog.Int("overdue", reminded),
	)
	return nil
}
