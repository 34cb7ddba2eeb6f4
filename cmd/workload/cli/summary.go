package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/workload"
	"github.com/acquisition-ops/workload/internal/workload/ui"
)

// DashboardService computes dashboards for the summary command.
type DashboardService interface {
	Dashboard(ctx context.Context, q workload.Query) (workload.Dashboard, error)
	Engine() *workload.Engine
}

// SummaryOptions drives the summary command.
type SummaryOptions struct {
	Filter             string
	DisabledClients    []string
	DisabledActivities []string
	JSONOutput         bool
	Stdout             io.Writer
	Stderr             io.Writer
}

// SummaryCommand prints the headline figures of a dashboard.
func SummaryCommand(ctx context.Context, svc DashboardService, opts SummaryOptions) int {
	opts.Stdout, opts.Stderr = outputs(opts.Stdout, opts.Stderr)
	filter, err := workload.ParseClientFilter(opts.Filter)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "summary: %v\n", err)
		return 2
	}
	dash, err := svc.Dashboard(ctx, workload.Query{
		Filter:  filter,
		Overlay: workload.NewOverlay(opts.DisabledClients, opts.DisabledActivities),
	})
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "summary: %v\n", err)
		return 1
	}
	if opts.JSONOutput {
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dash); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "summary: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	renderSummaryHuman(opts.Stdout, svc.Engine(), dash)
	return 0
}

func renderSummaryHuman(w io.Writer, engine *workload.Engine, dash workload.Dashboard) {
	t := dash.Totals
	_, _ = fmt.Fprintf(w, "filter: %s\n", dash.Filter)
	_, _ = fmt.Fprintf(w, "projects: %d  days: %s  hours: %s  ads: %s  average: %s\n",
		t.ProjectCount, num(t.TotalDaysSold)+"j", num(t.TotalHours)+"h", num(t.TotalAdsCount), num(t.AverageDaysPerProject)+"j")
	for _, p := range dash.Poles {
		_, _ = fmt.Fprintf(w, "  %-12s %8s  %s\n", p.Pole, engine.FormatDuration(p.TotalDays), strings.Join(p.Activities, ", "))
	}
	c := dash.Capacity
	_, _ = fmt.Fprintf(w, "ADS capacity: %s/%sj (%s%%) %s, remaining %s\n",
		num(c.PoleDays), num(c.CapacityDays), num(c.PercentUsed), c.Status, engine.FormatDuration(c.RemainingDays))
}

// ValidateRosterCommand loads a roster file and reports whether it is valid.
func ValidateRosterCommand(path string, stdout, stderr io.Writer) int {
	stdout, stderr = outputs(stdout, stderr)
	var (
		r   *roster.Roster
		err error
	)
	if path == "" {
		r, err = roster.Default()
	} else {
		r, err = roster.LoadFile(path)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "roster: %v\n", err)
		if errors.Is(err, roster.ErrInvalidRoster) {
			return 10
		}
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "roster ok: %d projects\n", r.Len())
	for _, p := range r.Projects() {
		stored, summed := workload.Round(p.TotalDaysSold, 1), workload.Round(p.ActivityDays(), 1)
		if stored != summed {
			_, _ = fmt.Fprintf(stdout, "drift: %s sold %sj, activities %sj\n", p.Client, num(stored), num(summed))
		}
	}
	return 0
}

func num(v float64) string {
	return ui.Number(v)
}
