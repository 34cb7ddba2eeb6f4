package planninghttp

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acquisition-ops/workload/internal/planning"
	"github.com/acquisition-ops/workload/internal/platform/httpx"
	"github.com/acquisition-ops/workload/internal/view"
)

// CycleLink is one entry of the cycle selector.
type CycleLink struct {
	Number    int
	MainMonth string
	URL       string
	Active    bool
}

// PageViewModel feeds the planning template.
type PageViewModel struct {
	Links    []CycleLink
	Cycle    planning.Cycle
	Workflow []planning.Step
}

// Handler serves the planning board.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	cycles    int
	loc       *time.Location
	now       func() time.Time
}

// NewHandler constructs the planning handler.
func NewHandler(logger *slog.Logger, templates *view.Engine, cycles int, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		logger:    logger,
		templates: templates,
		cycles:    planning.ClampCycles(cycles),
		loc:       loc,
		now:       time.Now,
	}
}

// WithNow overrides the clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// MountRoutes registers the planning endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/planning", h.handlePage)
	r.Get("/api/v1/planning", h.handleJSON)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	cycles := planning.Generate(h.now(), h.cycles, h.loc)
	selected := selectedCycle(r.URL.Query().Get("cycle"), len(cycles))

	vm := PageViewModel{
		Cycle:    cycles[selected],
		Workflow: planning.Workflow(),
	}
	for i, c := range cycles {
		vm.Links = append(vm.Links, CycleLink{
			Number:    c.CycleNumber,
			MainMonth: c.MainMonth,
			URL:       "/planning?cycle=" + strconv.Itoa(c.CycleNumber),
			Active:    i == selected,
		})
	}

	data := view.TemplateData{
		Title:       "Planning E-commerce",
		CurrentPath: r.URL.Path,
		Data:        vm,
	}
	if err := h.templates.Render(w, "pages/planning.html", data); err != nil {
		if h.logger != nil {
			h.logger.Error("render planning", slog.Any("error", err))
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleJSON(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"workflow": planning.Workflow(),
		"cycles":   planning.Generate(h.now(), h.cycles, h.loc),
	})
}

// selectedCycle turns a 1-based cycle query into an index clamped to n.
func selectedCycle(raw string, n int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0
	}
	if v > n {
		return n - 1
	}
	return v - 1
}
