package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/winside-retail/backoffice/internal/observability"
)

// OverdueSweeper marks open invoices past their due date as overdue.
type OverdueSweeper interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// StatsRefresher recomputes the denormalized customer counters.
type StatsRefresher interface {
	RefreshCustomerStats(ctx context.Context) (int64, error)
}

// IdempotencyCleaner purges aged idempotency keys.
type IdempotencyCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// idempotencyRetention is how long processed keys stay queryable for
// duplicate detection. Three days covers any realistic client retry window.
const idempotencyRetention = 72 * time.Hour

func observe(metrics *observability.Metrics, task string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveJob(task, outcome)
}

// NewInvoiceOverdueSweepHandler builds the handler for the overdue sweep.
func NewInvoiceOverdueSweepHandler(logger *slog.Logger, sweeper OverdueSweeper, metrics *observability.Metrics) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ScheduledPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		swept, err := sweeper.MarkOverdue(ctx)
		observe(metrics, TaskInvoiceOverdueSweep, err)
		if err != nil {
			logger.Error("overdue sweep", slog.Any("error", err))
			return err
		}
		logger.Info("overdue sweep complete", slog.Int64("invoices", swept))
		return nil
	}
}

// NewCustomerStatsRefreshHandler builds the handler for the stats refresh.
func NewCustomerStatsRefreshHandler(logger *slog.Logger, refresher StatsRefresher, metrics *observability.Metrics) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ScheduledPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		updated, err := refresher.RefreshCustomerStats(ctx)
		observe(metrics, TaskCustomerStatsRefresh, err)
		if err != nil {
			logger.Error("customer stats refresh", slog.Any("error", err))
			return err
		}
		logger.Info("customer stats refreshed", slog.Int64("customers", updated))
		return nil
	}
}

// NewIdempotencyCleanupHandler builds the handler for key cleanup.
func NewIdempotencyCleanupHandler(logger *slog.Logger, cleaner IdempotencyCleaner, metrics *observability.Metrics) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ScheduledPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		err := cleaner.Cleanup(ctx, idempotencyRetention)
		observe(metrics, TaskIdempotencyCleanup, err)
		if err != nil {
			logger.Error("idempotency cleanup", slog.Any("error", err))
			return err
		}
		return nil
	}
}
