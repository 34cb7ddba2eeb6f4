package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/workload"
)

// WriteSummaryCSV serialises the headline figures as Metric,Value rows.
func WriteSummaryCSV(w io.Writer, dash workload.Dashboard) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Filter", string(dash.Filter)},
		{"Total Days", formatFloat(dash.Totals.TotalDaysSold)},
		{"Total Hours", formatFloat(dash.Totals.TotalHours)},
		{"Ads Count", formatFloat(dash.Totals.TotalAdsCount)},
		{"Projects", strconv.Itoa(dash.Totals.ProjectCount)},
		{"Average Days per Project", formatFloat(dash.Totals.AverageDaysPerProject)},
		{"ADS Capacity Days", formatFloat(dash.Capacity.CapacityDays)},
		{"ADS Percent Used", formatFloat(dash.Capacity.PercentUsed)},
		{"ADS Remaining Days", formatFloat(dash.Capacity.RemainingDays)},
		{"ADS Status", string(dash.Capacity.Status)},
		{"Disabled Clients", strings.Join(dash.DisabledClients, "|")},
		{"Disabled Activities", strings.Join(dash.DisabledActivities, "|")},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WritePolesCSV emits the per-pole totals.
func WritePolesCSV(w io.Writer, poles []workload.PoleTotal) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Pole", "Days", "Activities"}); err != nil {
		return err
	}
	for _, p := range poles {
		if err := writer.Write([]string{
			string(p.Pole),
			formatFloat(p.TotalDays),
			strings.Join(p.Activities, "|"),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteProjectsCSV emits the per-project pole breakdown.
func WriteProjectsCSV(w io.Writer, breakdowns []workload.Breakdown) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	header := []string{"Client", "Type", "Total Days", "Ads"}
	for _, p := range roster.Poles() {
		header = append(header, string(p))
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, b := range breakdowns {
		record := []string{
			b.Client,
			string(b.ClientType),
			formatFloat(b.TotalDays),
			formatFloat(b.AdsCount),
		}
		for _, p := range roster.Poles() {
			record = append(record, formatFloat(b.Poles[p]))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
