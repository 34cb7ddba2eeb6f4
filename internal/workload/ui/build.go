package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/workload"
	"github.com/acquisition-ops/workload/internal/workload/svg"
)

var filterLabels = map[workload.ClientFilter][2]string{
	workload.FilterAll:          {"Tous les clients", "📊"},
	workload.FilterEcommerce:    {"E-commerce", "🛒"},
	workload.FilterNonEcommerce: {"Non E-commerce", "🏢"},
}

// FilterLabel returns the French label of f.
func FilterLabel(f workload.ClientFilter) string {
	return filterLabels[f][0]
}

// Builder turns computed dashboards into view models.
type Builder struct {
	Engine   *workload.Engine
	Bars     BarRenderer
	Gauge    GaugeRenderer
	BasePath string
}

// Build maps a computed dashboard to the template view model.
func (b Builder) Build(state State, dash workload.Dashboard) (DashboardViewModel, error) {
	if b.Engine == nil {
		return DashboardViewModel{}, fmt.Errorf("ui: engine required")
	}
	if b.Bars == nil || b.Gauge == nil {
		return DashboardViewModel{}, fmt.Errorf("svg renderer missing")
	}
	base := b.BasePath
	if base == "" {
		base = "/"
	}
	cfg := b.Engine.Config()

	vm := DashboardViewModel{
		Filter:     dash.Filter,
		Header:     b.header(dash),
		ResetURL:   state.Reset().URL(base),
		CSVURL:     state.URL(joinPath(base, "export.csv")),
		PDFURL:     state.URL(joinPath(base, "export.pdf")),
		JSONURL:    state.URL(joinPath(base, "api/v1/dashboard")),
		HasOverlay: len(state.Clients) > 0 || len(state.Activities) > 0,
	}
	for _, f := range workload.Filters() {
		vm.Filters = append(vm.Filters, FilterOption{
			Value:  string(f),
			Label:  filterLabels[f][0],
			Icon:   filterLabels[f][1],
			URL:    state.WithFilter(f).URL(base),
			Active: f == dash.Filter,
		})
	}

	values := make([]float64, 0, len(dash.Poles))
	labels := make([]string, 0, len(dash.Poles))
	colors := make([]string, 0, len(dash.Poles))
	for _, p := range dash.Poles {
		style := StyleFor(p.Pole)
		vm.Poles = append(vm.Poles, PoleCard{
			Pole:       p.Pole,
			Style:      style,
			Duration:   b.Engine.FormatDuration(p.TotalDays),
			HoursTotal: Number(b.Engine.Hours(p.TotalDays)) + "h total",
			Activities: p.Activities,
		})
		values = append(values, p.TotalDays)
		labels = append(labels, string(p.Pole))
		colors = append(colors, style.Color)
	}

	for _, card := range dash.Projects {
		vm.Projects = append(vm.Projects, b.card(state, base, card))
	}

	vm.Capacity = b.capacity(dash.Capacity, cfg)

	poleSVG, err := b.Bars.Bars(svg.DefaultWidth, svg.DefaultHeight, values, labels, svg.BarOpts{
		Title:          "Temps par pôle",
		Description:    "Jours consommés par pôle sur le périmètre filtré",
		Colors:         colors,
		Reference:      cfg.CapacityDays,
		ReferenceLabel: "Capacité ADS " + Number(cfg.CapacityDays) + "j",
		Unit:           "j",
	})
	if err != nil {
		return DashboardViewModel{}, err
	}
	vm.PoleSVG = poleSVG

	gauge, err := b.Gauge.Gauge(svg.DefaultWidth, 24, dash.Capacity.BarPercent, vm.Capacity.PercentText, svg.GaugeOpts{
		Title:     "Capacité Pôle ADS",
		FillColor: StyleFor(roster.PoleAds).Color,
	})
	if err != nil {
		return DashboardViewModel{}, err
	}
	vm.CapacitySVG = gauge
	return vm, nil
}

func (b Builder) header(dash workload.Dashboard) Header {
	h := Header{
		ClientCount: dash.Totals.ProjectCount,
		ClientNote:  "ce mois",
		TotalDays:   Number(dash.Totals.TotalDaysSold) + "j",
		TotalHours:  Number(dash.Totals.TotalHours) + "h",
		AdsCount:    Number(dash.Totals.TotalAdsCount),
		AdsLabel:    AdsLabel(dash.Filter),
		Average:     Number(dash.Totals.AverageDaysPerProject) + "j",
	}
	if dash.Filter != workload.FilterAll {
		h.ClientNote = strings.ToLower(FilterLabel(dash.Filter))
	}
	return h
}

// AdsLabel names the ads headcount for filter. Non e-commerce clients count
// managed accounts rather than ADS.
func AdsLabel(f workload.ClientFilter) string {
	if f == workload.FilterNonEcommerce {
		return "Comptes gérés"
	}
	return "ADS gérées"
}

func (b Builder) card(state State, base string, card workload.ProjectCard) ProjectCardView {
	view := ProjectCardView{
		Rank:      card.Rank,
		Name:      card.DisplayName,
		Duration:  card.Duration,
		Disabled:  card.Disabled,
		ToggleURL: state.ToggleClient(card.Client).URL(base),
	}
	if card.ClientType == roster.ClientEcommerce {
		view.AdsNote = Raw(card.AdsCount) + " ADS"
	}
	for _, a := range card.Activities {
		style := StyleFor(a.Pole)
		row := ActivityRow{
			Name:      a.Name,
			Icon:      style.Icon,
			Color:     style.Color,
			Duration:  a.Duration,
			Disabled:  a.Disabled,
			ToggleURL: state.ToggleActivity(card.Client, a.Name).URL(base),
		}
		if a.Disabled {
			row.Color = DisabledColor
		}
		if a.Hours != nil && *a.Hours != 0 {
			row.HoursNote = "(+" + Raw(*a.Hours) + "h)"
		}
		view.Activities = append(view.Activities, row)
	}
	for _, s := range card.Shares {
		view.Shares = append(view.Shares, ShareSegment{
			Color:   StyleFor(s.Pole).Color,
			Width:   strconv.FormatFloat(s.Percent, 'f', 2, 64) + "%",
			Tooltip: string(s.Pole) + ": " + s.Duration,
		})
	}
	return view
}

func (b Builder) capacity(c workload.Capacity, cfg workload.Config) CapacityView {
	view := CapacityView{
		Usage:          b.Engine.FormatDuration(c.PoleDays) + " / " + Number(c.CapacityDays) + "j",
		BarWidth:       strconv.FormatFloat(c.BarPercent, 'f', 1, 64) + "%",
		PercentText:    Number(c.PercentUsed) + "% utilisé",
		CapacityDays:   Number(c.CapacityDays) + "j",
		CapacityHours:  Number(c.CapacityHours) + "h",
		Remaining:      b.Engine.FormatDuration(c.RemainingDays),
		RemainingHours: Number(c.RemainingHours) + "h disponibles",
		Overdrawn:      c.CapacityDays-c.PoleDays < 0,
	}
	if monthly := cfg.WeeklyHours * 4; monthly > 0 {
		people := workload.Round(c.CapacityHours/monthly, 1)
		noun := "personnes"
		if people <= 1 {
			noun = "personne"
		}
		view.CapacityHours += " (" + Number(people) + " " + noun + ")"
	}
	switch c.Status {
	case workload.StatusOverloaded:
		view.StatusLabel, view.StatusClass = "⚠️ Surcharge", "status-overloaded"
	case workload.StatusNearLimit:
		view.StatusLabel, view.StatusClass = "⚡ Proche limite", "status-near"
	default:
		view.StatusLabel, view.StatusClass = "✅ OK", "status-ok"
	}
	return view
}

// Number prints v rounded to one decimal without trailing zeros.
func Number(v float64) string {
	return Raw(workload.Round(v, 1))
}

// Raw prints v without trailing zeros.
func Raw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinPath(base, leaf string) string {
	return strings.TrimSuffix(base, "/") + "/" + leaf
}
