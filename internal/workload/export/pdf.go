package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/workload"
	"github.com/acquisition-ops/workload/report"
)

// DashboardPayload is the data printed on the PDF summary.
type DashboardPayload struct {
	Title       string
	FilterLabel string
	GeneratedAt time.Time
	Dashboard   workload.Dashboard
	// AdsLabel names the ads count row, "ADS gérées" when empty.
	AdsLabel string
	// Format renders a day figure, usually Engine.FormatDuration.
	Format func(days float64) string
}

// HTMLRenderer converts an HTML document into PDF bytes.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, html string, opts report.Options) ([]byte, error)
}

// PDFExporter prints dashboards through an HTML renderer such as Gotenberg.
type PDFExporter struct {
	Renderer HTMLRenderer
}

// NewPDFExporter wires the exporter to a renderer.
func NewPDFExporter(renderer HTMLRenderer) *PDFExporter {
	return &PDFExporter{Renderer: renderer}
}

// RenderDashboard builds the summary document and returns the PDF bytes.
func (p *PDFExporter) RenderDashboard(ctx context.Context, payload DashboardPayload) ([]byte, error) {
	if p == nil || p.Renderer == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	return p.Renderer.RenderHTML(ctx, BuildHTML(payload), report.Options{
		WaitDelay: "500ms",
		Landscape: true,
		Filename:  "workload-" + string(payload.Dashboard.Filter),
	})
}

// BuildHTML renders the standalone HTML printed to PDF.
func BuildHTML(payload DashboardPayload) string {
	dash := payload.Dashboard
	title := payload.Title
	if title == "" {
		title = "Pôle Acquisition"
	}
	adsLabel := payload.AdsLabel
	if adsLabel == "" {
		adsLabel = "ADS gérées"
	}
	format := payload.Format
	if format == nil {
		format = func(days float64) string {
			return workload.FormatDuration(days, workload.DefaultHoursPerDay)
		}
	}

	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{text-align:left;background:#f5f5f5;}section{margin-bottom:24px;} .metric-label{text-align:left;}")
	b.WriteString("</style></head><body>")
	b.WriteString(fmt.Sprintf("<h1>%s – %s</h1>", templateEscape(title), templateEscape(payload.FilterLabel)))
	if !payload.GeneratedAt.IsZero() {
		b.WriteString(fmt.Sprintf("<p>Généré le %s</p>", payload.GeneratedAt.Format("02/01/2006 15:04")))
	}

	b.WriteString("<section><h2>Synthèse</h2><table><tbody>")
	writeMetricRow(&b, "Total vendu", formatFloat(dash.Totals.TotalDaysSold)+"j")
	writeMetricRow(&b, "Heures", formatFloat(dash.Totals.TotalHours)+"h")
	writeMetricRow(&b, adsLabel, formatFloat(dash.Totals.TotalAdsCount))
	writeMetricRow(&b, "Clients actifs", fmt.Sprintf("%d", dash.Totals.ProjectCount))
	writeMetricRow(&b, "Moyenne/client", formatFloat(dash.Totals.AverageDaysPerProject)+"j")
	writeMetricRow(&b, "Capacité ADS", formatFloat(dash.Capacity.PercentUsed)+"% ("+string(dash.Capacity.Status)+")")
	b.WriteString("</tbody></table></section>")

	if len(dash.Poles) > 0 {
		b.WriteString("<section><h2>Temps par pôle</h2><table><thead><tr><th>Pôle</th><th>Durée</th><th>Activités</th></tr></thead><tbody>")
		for _, p := range dash.Poles {
			b.WriteString("<tr><td class=\"metric-label\">")
			b.WriteString(templateEscape(string(p.Pole)))
			b.WriteString("</td><td>")
			b.WriteString(templateEscape(format(p.TotalDays)))
			b.WriteString("</td><td class=\"metric-label\">")
			b.WriteString(templateEscape(strings.Join(p.Activities, ", ")))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table></section>")
	}

	if len(dash.Breakdowns) > 0 {
		b.WriteString("<section><h2>Répartition par client</h2><table><thead><tr><th>Client</th><th>Total</th>")
		for _, p := range roster.Poles() {
			b.WriteString("<th>" + templateEscape(string(p)) + "</th>")
		}
		b.WriteString("</tr></thead><tbody>")
		for _, row := range dash.Breakdowns {
			b.WriteString("<tr><td class=\"metric-label\">")
			b.WriteString(templateEscape(row.DisplayName))
			b.WriteString("</td><td>")
			b.WriteString(templateEscape(format(row.TotalDays)))
			b.WriteString("</td>")
			for _, p := range roster.Poles() {
				b.WriteString("<td>" + formatFloat(row.Poles[p]) + "</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table></section>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func writeMetricRow(b *strings.Builder, label, value string) {
	b.WriteString("<tr><td class=\"metric-label\">")
	b.WriteString(templateEscape(label))
	b.WriteString("</td><td>")
	b.WriteString(templateEscape(value))
	b.WriteString("</td></tr>")
}

func templateEscape(v string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(v)
}
