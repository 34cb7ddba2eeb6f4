package ui

import (
	"html/template"

	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/workload"
	"github.com/acquisition-ops/workload/internal/workload/svg"
)

// PoleStyle carries the display attributes of a pole.
type PoleStyle struct {
	Label string
	Color string
	Icon  string
}

var poleStyles = map[roster.Pole]PoleStyle{
	roster.PoleAds:         {Label: "Pôle ADS", Color: "#3B82F6", Icon: "🎯"},
	roster.PoleCreative:    {Label: "Pôle Créatif", Color: "#EF4444", Icon: "🎨"},
	roster.PoleIntegration: {Label: "Pôle Intégration", Color: "#10B981", Icon: "⚙️"},
	roster.PoleSocial:      {Label: "Pôle Réseaux Sociaux", Color: "#8B5CF6", Icon: "📱"},
}

// DisabledColor is used for switched-off activities.
const DisabledColor = "#9CA3AF"

// StyleFor returns the display attributes of p.
func StyleFor(p roster.Pole) PoleStyle {
	if s, ok := poleStyles[p]; ok {
		return s
	}
	return PoleStyle{Label: string(p), Color: DisabledColor}
}

// FilterOption is one entry in the client type selector.
type FilterOption struct {
	Value  string
	Label  string
	Icon   string
	URL    string
	Active bool
}

// Header holds the headline figures.
type Header struct {
	ClientCount int
	ClientNote  string
	TotalDays   string
	TotalHours  string
	AdsCount    string
	AdsLabel    string
	Average     string
}

// PoleCard summarises one pole.
type PoleCard struct {
	Pole       roster.Pole
	Style      PoleStyle
	Duration   string
	HoursTotal string
	Activities []string
}

// ActivityRow is one line on a project card.
type ActivityRow struct {
	Name      string
	Icon      string
	Color     string
	Duration  string
	HoursNote string
	Disabled  bool
	ToggleURL string
}

// ShareSegment is one coloured slice of a project's pole bar.
type ShareSegment struct {
	Color   string
	Width   string
	Tooltip string
}

// ProjectCardView is a ranked project card.
type ProjectCardView struct {
	Rank       int
	Name       string
	Duration   string
	AdsNote    string
	Disabled   bool
	ToggleURL  string
	Activities []ActivityRow
	Shares     []ShareSegment
}

// CapacityView is the ADS pole capacity panel.
type CapacityView struct {
	Usage          string
	BarWidth       string
	PercentText    string
	StatusLabel    string
	StatusClass    string
	CapacityDays   string
	CapacityHours  string
	Remaining      string
	RemainingHours string
	Overdrawn      bool
}

// DashboardViewModel combines all dashboard data for rendering.
type DashboardViewModel struct {
	Filter      workload.ClientFilter
	Filters     []FilterOption
	Header      Header
	Poles       []PoleCard
	Projects    []ProjectCardView
	Capacity    CapacityView
	PoleSVG     template.HTML
	CapacitySVG template.HTML
	ResetURL    string
	CSVURL      string
	PDFURL      string
	JSONURL     string
	HasOverlay  bool
}

// BarRenderer abstracts SVG bar chart rendering for the dashboard.
type BarRenderer interface {
	Bars(width, height int, values []float64, labels []string, opts svg.BarOpts) (template.HTML, error)
}

// GaugeRenderer abstracts SVG gauge rendering for the capacity panel.
type GaugeRenderer interface {
	Gauge(width, height int, percent float64, label string, opts svg.GaugeOpts) (template.HTML, error)
}

// Renderers adapts the svg package functions to the renderer interfaces.
type Renderers struct{}

// Bars implements BarRenderer.
func (Renderers) Bars(width, height int, values []float64, labels []string, opts svg.BarOpts) (template.HTML, error) {
	return svg.Bars(width, height, values, labels, opts)
}

// Gauge implements GaugeRenderer.
func (Renderers) Gauge(width, height int, percent float64, label string, opts svg.GaugeOpts) (template.HTML, error) {
	return svg.Gauge(width, height, percent, label, opts)
}
