package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acquisition-ops/workload/internal/observability"
	planninghttp "github.com/acquisition-ops/workload/internal/planning/http"
	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/view"
	"github.com/acquisition-ops/workload/internal/workload"
	workloadhttp "github.com/acquisition-ops/workload/internal/workload/http"
	"github.com/acquisition-ops/workload/internal/workload/ui"
	"github.com/acquisition-ops/workload/jobs"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	r, err := roster.Default()
	require.NoError(t, err)
	templates, err := view.NewEngine()
	require.NoError(t, err)
	engine := workload.NewEngine(workload.DefaultConfig())

	return NewRouter(RouterParams{
		Config:          &Config{AppEnv: "test"},
		WorkloadHandler: workloadhttp.NewHandler(nil, workload.NewService(r, engine, nil), engine, templates, ui.Renderers{}, ui.Renderers{}, nil),
		PlanningHandler: planninghttp.NewHandler(nil, templates, 6, nil),
		JobHandler:      jobs.NewHandler(nil, nil),
		Metrics:         observability.NewMetrics(),
	})
}

func serve(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthAndRobots(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(router, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User-agent: Googlebot\nDisallow: /")
	assert.Contains(t, rec.Body.String(), "User-agent: Bingbot")
}

func TestRouterMountsHandlers(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/", "/planning", "/api/v1/dashboard", "/api/v1/planning", "/jobs/health"} {
		rec := serve(router, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouterSecurityHeaders(t *testing.T) {
	rec := serve(newTestRouter(t), "/healthz")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouterStaticAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, "/static/css/app.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	serve(router, "/healthz")
	rec = serve(router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `workload_http_requests_total{code="200",route="/healthz"}`)
}
