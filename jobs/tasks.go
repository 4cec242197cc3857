// Package jobs contains the Asynq background workers: the overdue invoice
// scan, per-invoice reminders, and the dashboard stats warmup.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskOverdueScan walks the invoice collection and emits reminders.
	TaskOverdueScan = "invoice:overdue_scan"
	// TaskReminder notifies about one overdue invoice.
	TaskReminder = "invoice:reminder"
	// TaskStatsWarmup refreshes the cached dashboard aggregates.
	TaskStatsWarmup = "stats:warmup"
)

// ReminderPayload identifies the overdue invoice to remind about.
type ReminderPayload struct {
	InvoiceID   int64  `json:"invoice_id"`
	Number      string `json:"number"`
	DaysOverdue int    `json:"days_overdue"`
}

// NewOverdueScanTask constructs the scan task.
func NewOverdueScanTask() *asynq.Task {
	return asynq.NewTask(TaskOverdueScan, nil)
}

// NewStatsWarmupTask constructs the warmup task.
func NewStatsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskStatsWarmup, nil)
}

// NewReminderTask constructs a reminder task for one overdue invoice.
func NewReminderTask(payload ReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReminder, data), nil
}

// HandleReminderTask processes TaskReminder tasks. Delivery is a log line
// until the SMTP integration lands.
func HandleReminderTask(ctx context.Context, t *asynq.Task) error {
	var payload ReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	fmt.Printf("[jobs] invoice %s is %d day(s) overdue\n", payload.Number, payload.DaysOverdue)
	return nil
}
