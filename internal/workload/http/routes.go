package workloadhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers dashboard endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.handleDashboard)
	r.Get("/charts/poles.svg", h.handlePolesSVG)
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/dashboard", h.handleDashboardJSON)
		api.Get("/poles", h.handlePolesJSON)
		api.Get("/capacity", h.handleCapacityJSON)
		api.Get("/projects", h.handleProjectsJSON)
		api.Get("/roster", h.handleRosterJSON)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/export.pdf", h.handlePDF)
		gr.Get("/export.csv", h.handleCSV)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
