package svg

// BarOpts customises the pole bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	// Colors are applied per bar and cycle when shorter than the series.
	Colors    []string
	AxisColor string
	GridColor string
	Padding   float64
	TickCount int
	// Reference draws a dashed horizontal line, e.g. the monthly capacity.
	Reference      float64
	ReferenceLabel string
	ReferenceColor string
	Unit           string
}

// GaugeOpts customises the horizontal capacity gauge.
type GaugeOpts struct {
	Title       string
	Description string
	FillColor   string
	TrackColor  string
	TextColor   string
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 24.0
	DefaultTicks   = 5
)
