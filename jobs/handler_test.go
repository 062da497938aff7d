package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	calls int
	err   error
}

func (f *fakeEnqueuer) EnqueueLedgerReconcile(_ context.Context) (*asynq.TaskInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "t-1", Queue: QueueDefault}, nil
}

func jobsRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	return r
}

func TestReconcileEndpointQueuesSweep(t *testing.T) {
	enq := &fakeEnqueuer{}
	handler := NewHandler(nil, enq, nil)

	rec := httptest.NewRecorder()
	jobsRouter(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/reconcile", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, enq.calls)
	require.JSONEq(t, `{"task":"t-1","queue":"default"}`, rec.Body.String())
}

func TestReconcileEndpointEnqueueFailure(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	handler := NewHandler(nil, enq, nil)

	rec := httptest.NewRecorder()
	jobsRouter(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/reconcile", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReconcileEndpointWithoutClient(t *testing.T) {
	handler := NewHandler(nil, nil, nil)

	rec := httptest.NewRecorder()
	jobsRouter(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/reconcile", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
