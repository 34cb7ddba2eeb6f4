package workloadhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/acquisition-ops/workload/internal/platform/httpx"
	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/view"
	"github.com/acquisition-ops/workload/internal/workload"
	"github.com/acquisition-ops/workload/internal/workload/export"
	"github.com/acquisition-ops/workload/internal/workload/svg"
	"github.com/acquisition-ops/workload/internal/workload/ui"
)

const defaultRequestTimeout = 2 * time.Second

// DashboardService defines the data contract used by the handler.
type DashboardService interface {
	Dashboard(ctx context.Context, q workload.Query) (workload.Dashboard, error)
	Roster(ctx context.Context, filter workload.ClientFilter) ([]roster.Project, error)
}

// PDFService renders dashboard content to PDF bytes.
type PDFService interface {
	RenderDashboard(ctx context.Context, payload export.DashboardPayload) ([]byte, error)
}

// Handler coordinates HTTP requests for the workload dashboard.
type Handler struct {
	logger    *slog.Logger
	service   DashboardService
	engine    *workload.Engine
	templates *view.Engine
	bars      ui.BarRenderer
	gauge     ui.GaugeRenderer
	pdf       PDFService
	csvPool   sync.Pool
	now       func() time.Time
	timeout   time.Duration
}

// NewHandler constructs the workload HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService, engine *workload.Engine, templates *view.Engine, bars ui.BarRenderer, gauge ui.GaugeRenderer, pdf PDFService) *Handler {
	if engine == nil {
		engine = workload.NewEngine(workload.DefaultConfig())
	}
	h := &Handler{
		logger:    logger,
		service:   service,
		engine:    engine,
		templates: templates,
		bars:      bars,
		gauge:     gauge,
		pdf:       pdf,
		now:       time.Now,
		timeout:   defaultRequestTimeout,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// WithTimeout overrides the per-request computation budget.
func (h *Handler) WithTimeout(d time.Duration) {
	if d > 0 {
		h.timeout = d
	}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	state, err := ui.ParseState(r.URL.Query())
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	dash, err := h.service.Dashboard(ctx, state.Query())
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}

	builder := ui.Builder{Engine: h.engine, Bars: h.bars, Gauge: h.gauge, BasePath: "/"}
	vm, err := builder.Build(state, dash)
	if err != nil {
		h.handleServerError(w, "render charts", err)
		return
	}

	viewData := view.TemplateData{
		Title:       "Pôle Acquisition",
		CurrentPath: r.URL.Path,
		Data:        vm,
	}
	if err := h.templates.Render(w, "pages/dashboard.html", viewData); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.loadJSON(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) handlePolesJSON(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.loadJSON(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"filter": dash.Filter,
		"poles":  dash.Poles,
	})
}

func (h *Handler) handleCapacityJSON(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("pole")
	if raw == "" {
		raw = string(roster.PoleAds)
	}
	pole, err := workload.ParsePole(raw)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	dash, ok := h.loadJSON(w, r)
	if !ok {
		return
	}
	capacity := h.engine.Capacity(workload.PoleDays(dash.Poles, pole))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"filter":   dash.Filter,
		"pole":     pole,
		"capacity": capacity,
	})
}

func (h *Handler) handleProjectsJSON(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.loadJSON(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"filter":   dash.Filter,
		"projects": dash.Breakdowns,
	})
}

func (h *Handler) handleRosterJSON(w http.ResponseWriter, r *http.Request) {
	state, err := ui.ParseState(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	projects, err := h.service.Roster(ctx, state.Filter)
	if err != nil {
		h.logError("load roster", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"filter":   state.Filter,
		"projects": projects,
	})
}

func (h *Handler) handlePolesSVG(w http.ResponseWriter, r *http.Request) {
	state, err := ui.ParseState(r.URL.Query())
	if err != nil {
		h.handleFilterError(w, err)
		return
	}
	if h.bars == nil {
		h.handleServerError(w, "svg renderer", errors.New("bar renderer not configured"))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	dash, err := h.service.Dashboard(ctx, state.Query())
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}
	values := make([]float64, 0, len(dash.Poles))
	labels := make([]string, 0, len(dash.Poles))
	colors := make([]string, 0, len(dash.Poles))
	for _, p := range dash.Poles {
		values = append(values, p.TotalDays)
		labels = append(labels, string(p.Pole))
		colors = append(colors, ui.StyleFor(p.Pole).Color)
	}
	cfg := h.engine.Config()
	chart, err := h.bars.Bars(svg.DefaultWidth, svg.DefaultHeight, values, labels, svg.BarOpts{
		Title:          "Temps par pôle",
		Description:    ui.FilterLabel(dash.Filter),
		Colors:         colors,
		Reference:      cfg.CapacityDays,
		ReferenceLabel: "Capacité ADS " + ui.Number(cfg.CapacityDays) + "j",
		Unit:           "j",
	})
	if err != nil {
		h.handleServerError(w, "render chart", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write([]byte(chart)); err != nil {
		h.logError("stream svg", err)
	}
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		h.handleServerError(w, "pdf exporter", errors.New("pdf exporter not configured"))
		return
	}
	state, err := ui.ParseState(r.URL.Query())
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	dash, err := h.service.Dashboard(ctx, state.Query())
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}

	payload := export.DashboardPayload{
		Title:       "Pôle Acquisition",
		FilterLabel: ui.FilterLabel(dash.Filter),
		AdsLabel:    ui.AdsLabel(dash.Filter),
		GeneratedAt: h.now(),
		Dashboard:   dash,
		Format:      h.engine.FormatDuration,
	}
	pdfBytes, err := h.pdf.RenderDashboard(r.Context(), payload)
	if err != nil {
		h.logError("render pdf", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	filename := fmt.Sprintf("workload-%s-%s.pdf", dash.Filter, h.now().Format("2006-01"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(pdfBytes); err != nil {
		h.logError("stream pdf", err)
	}
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	state, err := ui.ParseState(r.URL.Query())
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	dash, err := h.service.Dashboard(ctx, state.Query())
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteSummaryCSV(buf, dash); err != nil {
		h.handleServerError(w, "write summary csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WritePolesCSV(buf, dash.Poles); err != nil {
		h.handleServerError(w, "write poles csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteProjectsCSV(buf, dash.Breakdowns); err != nil {
		h.handleServerError(w, "write projects csv", err)
		return
	}

	filename := fmt.Sprintf("workload-%s-%s.csv", dash.Filter, h.now().Format("2006-01"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) loadJSON(w http.ResponseWriter, r *http.Request) (workload.Dashboard, bool) {
	state, err := ui.ParseState(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return workload.Dashboard{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	dash, err := h.service.Dashboard(ctx, state.Query())
	if err != nil {
		h.logError("load dashboard", err)
		httpx.RespondError(w, err)
		return workload.Dashboard{}, false
	}
	return dash, true
}

func (h *Handler) handleFilterError(w http.ResponseWriter, err error) {
	if errors.Is(err, workload.ErrUnknownFilter) {
		http.Error(w, "Paramètre invalide", http.StatusBadRequest)
		return
	}
	h.handleServerError(w, "parse filters", err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}
