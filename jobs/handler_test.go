package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	_ "github.com/winside-retail/backoffice/testing"
)

type stubEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (s *stubEnqueuer) Enqueue(_ context.Context, task *asynq.Task) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault, Type: task.Type()}, nil
}

func newJobsRouter(enqueuer Enqueuer) http.Handler {
	h := NewHandler(nil, enqueuer, nil)
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	return r
}

func TestRunEnqueuesMaintenanceTask(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	router := newJobsRouter(enqueuer)

	req := httptest.NewRequest(http.MethodPost, "/jobs/run/"+TaskInvoiceOverdueSweep, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, enqueuer.tasks, 1)
	require.Equal(t, TaskInvoiceOverdueSweep, enqueuer.tasks[0].Type())

	var payload ScheduledPayload
	require.NoError(t, json.Unmarshal(enqueuer.tasks[0].Payload(), &payload))
	require.False(t, payload.ScheduledFor.IsZero())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, TaskInvoiceOverdueSweep, body["task"])
	require.Equal(t, QueueDefault, body["queue"])
}

func TestRunRejectsUnknownTask(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	router := newJobsRouter(enqueuer)

	req := httptest.NewRequest(http.MethodPost, "/jobs/run/nonsense", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, enqueuer.tasks)
}

func TestRunWithoutEnqueuerUnavailable(t *testing.T) {
	router := newJobsRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/jobs/run/"+TaskIdempotencyCleanup, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
