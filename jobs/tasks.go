// Package jobs hosts the background worker: an Asynq server with cron
// scheduled maintenance tasks.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskInvoiceOverdueSweep moves past-due open invoices to overdue.
	TaskInvoiceOverdueSweep = "invoice:overdue_sweep"
	// TaskCustomerStatsRefresh recomputes the informational customer
	// counters from invoices.
	TaskCustomerStatsRefresh = "customer:stats_refresh"
	// TaskIdempotencyCleanup purges aged idempotency keys.
	TaskIdempotencyCleanup = "idempotency:cleanup"
)

// ScheduledPayload carries scheduling metadata shared by the cron tasks.
type ScheduledPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

func newScheduledTask(taskType string, at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ScheduledPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body, asynq.Queue(QueueDefault)), nil
}

// NewInvoiceOverdueSweepTask constructs the overdue sweep task.
func NewInvoiceOverdueSweepTask(at time.Time) (*asynq.Task, error) {
	return newScheduledTask(TaskInvoiceOverdueSweep, at)
}

// NewCustomerStatsRefreshTask constructs the stats refresh task.
func NewCustomerStatsRefreshTask(at time.Time) (*asynq.Task, error) {
	return newScheduledTask(TaskCustomerStatsRefresh, at)
}

// NewIdempotencyCleanupTask constructs the cleanup task.
func NewIdempotencyCleanupTask(at time.Time) (*asynq.Task, error) {
	return newScheduledTask(TaskIdempotencyCleanup, at)
}
