package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/acquisition-ops/workload/internal/jobs"
	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/workload"
)

func newWarmupJob(t *testing.T) (*DashboardWarmupJob, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r, err := roster.Default()
	require.NoError(t, err)
	svc := workload.NewService(r, nil, workload.NewCache(client, time.Minute))
	metrics := jobmetrics.NewMetrics(prometheus.NewRegistry())
	return NewDashboardWarmupJob(svc, nil, metrics), mr
}

func TestDashboardWarmupFillsCache(t *testing.T) {
	job, mr := newWarmupJob(t)

	task, err := NewDashboardWarmupTask(DashboardWarmupPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	for _, f := range workload.Filters() {
		assert.True(t, mr.Exists("workload:dashboard:"+string(f)+":-:1"), f)
	}
}

func TestDashboardWarmupResetBumpsVersion(t *testing.T) {
	job, mr := newWarmupJob(t)
	ctx := context.Background()

	require.NoError(t, job.Run(ctx, []workload.ClientFilter{workload.FilterAll}, false))
	require.NoError(t, job.Run(ctx, []workload.ClientFilter{workload.FilterEcommerce}, true))

	version, err := mr.Get("workload:version")
	require.NoError(t, err)
	assert.Equal(t, "2", version)
	assert.True(t, mr.Exists("workload:dashboard:ecommerce:-:2"))
	assert.False(t, mr.Exists("workload:dashboard:all:-:2"))
}

func TestDashboardWarmupRejectsBadPayload(t *testing.T) {
	job, _ := newWarmupJob(t)

	err := job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, []byte(`{"filters":["retail"]}`)))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.True(t, errors.Is(err, workload.ErrUnknownFilter))
}

func TestNewDashboardWarmupTask(t *testing.T) {
	task, err := NewDashboardWarmupTask(DashboardWarmupPayload{Filters: []string{"ecommerce", "ecommerce"}, Reset: true})
	require.NoError(t, err)
	assert.Equal(t, TaskDashboardWarmup, task.Type())

	var payload DashboardWarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	filters, err := payload.filters()
	require.NoError(t, err)
	assert.Equal(t, []workload.ClientFilter{workload.FilterEcommerce}, filters)
	assert.True(t, payload.Reset)

	_, err = NewDashboardWarmupTask(DashboardWarmupPayload{Filters: []string{"retail"}})
	assert.Error(t, err)
}

func TestNilWarmupJob(t *testing.T) {
	var job *DashboardWarmupJob
	assert.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, nil)))
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func TestJobsHealth(t *testing.T) {
	serve := func(h *Handler) *httptest.ResponseRecorder {
		r := chi.NewRouter()
		r.Route("/jobs", h.MountRoutes)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
		return rec
	}

	rec := serve(NewHandler(stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 3, Retry: 1}}, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body queueHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Pending)
	assert.Equal(t, 1, body.Retry)

	rec = serve(NewHandler(stubInspector{err: errors.New("redis down")}, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(NewHandler(nil, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
