package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/rainline/rainline/internal/reporting"
)

// StatsWarmupJob refreshes the cached dashboard aggregates so the first
// dashboard view after the TTL expires does not pay the recompute cost.
type StatsWarmupJob struct {
	Reporting *reporting.Service
	Logger    *slog.Logger
}

// NewStatsWarmupJob wires dependencies for the warmup handler.
func NewStatsWarmupJob(reportingSvc *reporting.Service, logger *slog.Logger) *StatsWarmupJob {
	return &StatsWarmupJob{Reporting: reportingSvc, Logger: logger}
}

// Handle processes TaskStatsWarmup tasks.
func (j *StatsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reporting == nil {
		return errors.New("stats warmup: handler not configured")
	}

	stats, err := j.Reporting.Refresh(ctx)
	if err != nil {
		return err
	}

	j.Logger.Info("stats warmup complete",
		slog.Int("invoices", stats.TotalInvoices),
		slog.Int("overdue", stats.OverdueCount),
	)
	return nil
}
