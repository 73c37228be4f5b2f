package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/winside-retail/backoffice/internal/observability"
	_ "github.com/winside-retail/backoffice/testing"
)

type stubSweeper struct {
	swept int64
	err   error
	calls int
}

func (s *stubSweeper) MarkOverdue(context.Context) (int64, error) {
	s.calls++
	return s.swept, s.err
}

type stubCleaner struct {
	olderThan time.Duration
}

func (c *stubCleaner) Cleanup(_ context.Context, olderThan time.Duration) error {
	c.olderThan = olderThan
	return nil
}

func scheduledTask(t *testing.T, taskType string) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(ScheduledPayload{ScheduledFor: time.Now().UTC()})
	require.NoError(t, err)
	return asynq.NewTask(taskType, body)
}

func TestOverdueSweepHandler(t *testing.T) {
	sweeper := &stubSweeper{swept: 3}
	handler := NewInvoiceOverdueSweepHandler(nil, sweeper, observability.NewMetrics())

	err := handler(context.Background(), scheduledTask(t, TaskInvoiceOverdueSweep))
	require.NoError(t, err)
	require.Equal(t, 1, sweeper.calls)
}

func TestOverdueSweepHandlerPropagatesError(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("db down")}
	handler := NewInvoiceOverdueSweepHandler(nil, sweeper, observability.NewMetrics())

	err := handler(context.Background(), scheduledTask(t, TaskInvoiceOverdueSweep))
	require.Error(t, err)
}

func TestOverdueSweepHandlerSkipsBadPayload(t *testing.T) {
	sweeper := &stubSweeper{}
	handler := NewInvoiceOverdueSweepHandler(nil, sweeper, observability.NewMetrics())

	err := handler(context.Background(), asynq.NewTask(TaskInvoiceOverdueSweep, []byte("{not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Zero(t, sweeper.calls)
}

func TestIdempotencyCleanupUsesRetention(t *testing.T) {
	cleaner := &stubCleaner{}
	handler := NewIdempotencyCleanupHandler(nil, cleaner, observability.NewMetrics())

	err := handler(context.Background(), scheduledTask(t, TaskIdempotencyCleanup))
	require.NoError(t, err)
	require.Equal(t, idempotencyRetention, cleaner.olderThan)
}

func TestTaskConstructors(t *testing.T) {
	now := time.Now().UTC()
	for _, build := range []func(time.Time) (*asynq.Task, error){
		NewInvoiceOverdueSweepTask,
		NewCustomerStatsRefreshTask,
		NewIdempotencyCleanupTask,
	} {
		task, err := build(now)
		require.NoError(t, err)
		var payload ScheduledPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &payload))
		require.WithinDuration(t, now, payload.ScheduledFor, time.Second)
	}
}
