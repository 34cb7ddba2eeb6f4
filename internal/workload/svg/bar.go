package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Bars renders one bar per label with an optional reference line.
func Bars(width, height int, values []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(labels) != len(values) {
		return "", fmt.Errorf("svg: values length must match labels")
	}
	for _, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("svg: values must be finite and non-negative")
		}
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}

	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")
	refColor := fallback(opts.ReferenceColor, "#dc2626")
	colors := opts.Colors
	if len(colors) == 0 {
		colors = []string{"#3B82F6"}
	}

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	maxVal := maxOf(values)
	if opts.Reference > maxVal {
		maxVal = opts.Reference
	}
	if almostEqual(maxVal, 0) {
		maxVal = 1
	}
	scale := chartHeight / maxVal
	bottom := padding + chartHeight
	slot := chartWidth / float64(len(values))
	barWidth := slot * 0.6

	titleID := makeID(opts.Title, "bar-title")
	descID := makeID(opts.Title, "bar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Workload per pole"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		y := bottom - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(maxVal*ratio))))
	}

	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, bottom))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, bottom, padding+chartWidth, bottom))
	b.WriteString("</g>")

	for i, label := range labels {
		h := values[i] * scale
		x := padding + float64(i)*slot + (slot-barWidth)/2
		y := bottom - h
		color := colors[i%len(colors)]
		valueText := formatTick(values[i]) + opts.Unit
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>", x, y, barWidth, h, color, template.HTMLEscapeString(label), template.HTMLEscapeString(valueText)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x+barWidth/2, y-4, axisColor, template.HTMLEscapeString(valueText)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x+barWidth/2, bottom+14, axisColor, template.HTMLEscapeString(label)))
	}

	if opts.Reference > 0 {
		y := bottom - opts.Reference*scale
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1.5\" stroke-dasharray=\"6,3\"></line>", padding, y, padding+chartWidth, y, refColor))
		if opts.ReferenceLabel != "" {
			b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding+chartWidth, y-4, refColor, template.HTMLEscapeString(opts.ReferenceLabel)))
		}
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

// Gauge renders a horizontal progress bar. percent is clamped to [0, 100]
// for the fill while label is printed as given.
func Gauge(width, height int, percent float64, label string, opts GaugeOpts) (template.HTML, error) {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return "", fmt.Errorf("svg: percent must be finite")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = 32
	}
	fill := math.Max(0, math.Min(percent, 100))
	fillColor := fallback(opts.FillColor, "#3B82F6")
	trackColor := fallback(opts.TrackColor, "#e5e7eb")
	textColor := fallback(opts.TextColor, "#1f2937")

	titleID := makeID(opts.Title, "gauge-title")
	descID := makeID(opts.Title, "gauge-desc")
	radius := float64(height) / 2

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Gauge"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, label))))
	b.WriteString(fmt.Sprintf("<rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" rx=\"%.2f\" fill=\"%s\"></rect>", width, height, radius, trackColor))
	b.WriteString(fmt.Sprintf("<rect x=\"0\" y=\"0\" width=\"%.2f\" height=\"%d\" rx=\"%.2f\" fill=\"%s\"></rect>", float64(width)*fill/100, height, radius, fillColor))
	if label != "" {
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"12\" text-anchor=\"middle\">%s</text>", float64(width)/2, radius+4, textColor, template.HTMLEscapeString(label)))
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func maxOf(values []float64) float64 {
	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return fmt.Sprintf("%s-%s", cleaned, suffix)
}

func formatTick(v float64) string {
	if almostEqual(v, math.Round(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
