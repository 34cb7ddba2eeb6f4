package workloadhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acquisition-ops/workload/internal/platform/httpx"
	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/view"
	"github.com/acquisition-ops/workload/internal/workload"
	"github.com/acquisition-ops/workload/internal/workload/export"
	"github.com/acquisition-ops/workload/internal/workload/ui"
)

type stubPDF struct {
	payload export.DashboardPayload
	err     error
}

func (s *stubPDF) RenderDashboard(_ context.Context, payload export.DashboardPayload) ([]byte, error) {
	s.payload = payload
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7"), nil
}

type failingService struct{}

func (failingService) Dashboard(context.Context, workload.Query) (workload.Dashboard, error) {
	return workload.Dashboard{}, errors.New("redis down")
}

func (failingService) Roster(context.Context, workload.ClientFilter) ([]roster.Project, error) {
	return nil, errors.New("redis down")
}

func newTestRouter(t *testing.T, pdf PDFService) http.Handler {
	t.Helper()
	r, err := roster.Default()
	require.NoError(t, err)
	engine := workload.NewEngine(workload.DefaultConfig())
	templates, err := view.NewEngine()
	require.NoError(t, err)

	h := NewHandler(nil, workload.NewService(r, engine, nil), engine, templates, ui.Renderers{}, ui.Renderers{}, pdf)
	h.WithNow(func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) })

	router := chi.NewRouter()
	h.MountRoutes(router)
	return router
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboardPage(t *testing.T) {
	router := newTestRouter(t, &stubPDF{})

	rec := get(t, router, "/?filter=ecommerce")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Pôle Acquisition")
	assert.Contains(t, body, "ELEC DIRECT")
	assert.Contains(t, body, "<svg")
	assert.NotContains(t, body, "Comptes gérés")

	rec = get(t, router, "/?filter=non-ecommerce")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Comptes gérés")
}

func TestDashboardPageRejectsUnknownFilter(t *testing.T) {
	router := newTestRouter(t, &stubPDF{})
	rec := get(t, router, "/?filter=retail")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardJSON(t *testing.T) {
	router := newTestRouter(t, &stubPDF{})

	rec := get(t, router, "/api/v1/dashboard?filter=non-ecommerce")
	require.Equal(t, http.StatusOK, rec.Code)

	var dash workload.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, workload.FilterNonEcommerce, dash.Filter)
	assert.Equal(t, 13, dash.Totals.ProjectCount)
	assert.InDelta(t, 3.9, dash.Totals.TotalDaysSold, 1e-9)
}

func TestDashboardJSONAppliesOverlay(t *testing.T) {
	router := newTestRouter(t, &stubPDF{})

	rec := get(t, router, "/api/v1/dashboard?disabled_client=ELEC+DIRECT")
	require.Equal(t, http.StatusOK, rec.Code)

	var dash workload.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, []string{"ELEC DIRECT"}, dash.DisabledClients)
	assert.InDelta(t, 37.9, dash.Totals.TotalDaysSold, 1e-9)
}

func TestJSONProblemOnBadFilter(t *testing.T) {
	router := newTestRouter(t, &stubPDF{})

	rec := get(t, router, "/api/v1/poles?filter=retail")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusBadRequest, problem.Status)
}

func TestCapacityJSON(t *testing.T) {
	router := newTestRouter(t, &stubPDF{})

	rec := get(t, router, "/api/v1/capacity?pole=creative")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Pole     roster.Pole       `json:"pole"`
		Capacity workload.Capacity `json:"capacity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, roster.PoleCreative, payload.Pole)
	assert.InDelta(t, 8.5, payload.Capacity.PoleDays, 1e-9)
	assert.Equal(t, workload.StatusOK, payload.Capacity.Status)

	rec = get(t, router, "/api/v1/capacity?pole=seo")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectsAndRosterJSON(t *testing.T) {
	router := newTestRouter(t, &stubPDF{})

	rec := get(t, router, "/api/v1/projects?filter=ecommerce")
	require.Equal(t, http.StatusOK, rec.Code)
	var projects struct {
		Projects []workload.Breakdown `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	require.Len(t, projects.Projects, 7)
	assert.Equal(t, "ELEC DIRECT", projects.Projects[0].Client)

	rec = get(t, router, "/api/v1/roster")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Projects []roster.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Projects, 20)
}

func TestCSVExport(t *testing.T) {
	router := newTestRouter(t, &stubPDF{})

	rec := get(t, router, "/export.csv?filter=ecommerce")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "workload-ecommerce-2026-10.csv")
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "Metric,Value\n"))
	assert.Contains(t, body, "Pole,Days,Activities")
	assert.Contains(t, body, "Client,Type,Total Days,Ads")
}

func TestPDFExport(t *testing.T) {
	pdf := &stubPDF{}
	router := newTestRouter(t, pdf)

	rec := get(t, router, "/export.pdf?filter=non-ecommerce")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.7", rec.Body.String())
	assert.Equal(t, "Non E-commerce", pdf.payload.FilterLabel)
	assert.Equal(t, "Comptes gérés", pdf.payload.AdsLabel)
	assert.NotNil(t, pdf.payload.Format)
}

func TestPDFExportRendererFailure(t *testing.T) {
	router := newTestRouter(t, &stubPDF{err: errors.New("gotenberg unavailable")})
	rec := get(t, router, "/export.pdf")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPolesSVG(t *testing.T) {
	router := newTestRouter(t, &stubPDF{})

	rec := get(t, router, "/charts/poles.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Capacité ADS 40j")
}

func TestServiceFailure(t *testing.T) {
	templates, err := view.NewEngine()
	require.NoError(t, err)
	h := NewHandler(nil, failingService{}, nil, templates, ui.Renderers{}, ui.Renderers{}, nil)
	router := chi.NewRouter()
	h.MountRoutes(router)

	assert.Equal(t, http.StatusInternalServerError, get(t, router, "/").Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, router, "/api/v1/dashboard").Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, router, "/export.pdf").Code)
}
