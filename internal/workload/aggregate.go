package workload

import (
	"math"
	"sort"
	"strconv"

	"github.com/acquisition-ops/workload/internal/roster"
)

// PoleTotal is the aggregated workload of one pole.
type PoleTotal struct {
	Pole       roster.Pole `json:"pole"`
	TotalDays  float64     `json:"totalDays"`
	Activities []string    `json:"activities"`
}

// Totals holds the roster-wide figures.
type Totals struct {
	TotalDaysSold         float64 `json:"totalDaysSold"`
	TotalHours            float64 `json:"totalHours"`
	TotalAdsCount         float64 `json:"totalAdsCount"`
	ProjectCount          int     `json:"projectCount"`
	AverageDaysPerProject float64 `json:"averageDaysPerProject"`
}

// Breakdown is the per-pole split of one project against its stored total.
type Breakdown struct {
	Client      string                  `json:"client"`
	DisplayName string                  `json:"displayName"`
	ClientType  roster.ClientType       `json:"clientType"`
	TotalDays   float64                 `json:"totalDays"`
	AdsCount    float64                 `json:"adsCount"`
	Poles       map[roster.Pole]float64 `json:"poles"`
	Shares      map[roster.Pole]float64 `json:"shares,omitempty"`
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// PoleTotals sums activity days per pole. Every pole is present in canonical
// order. Activity names are collected once, in order of first appearance,
// and only when they carry days.
func PoleTotals(projects []roster.Project) []PoleTotal {
	poles := roster.Poles()
	index := make(map[roster.Pole]int, len(poles))
	sums := make([]float64, len(poles))
	names := make([][]string, len(poles))
	seen := make([]map[string]struct{}, len(poles))
	for i, p := range poles {
		index[p] = i
		seen[i] = map[string]struct{}{}
		names[i] = []string{}
	}
	for _, p := range projects {
		for _, a := range p.Activities {
			i, ok := index[a.Pole]
			if !ok || a.Days <= 0 {
				continue
			}
			sums[i] += a.Days
			if _, dup := seen[i][a.Name]; !dup {
				seen[i][a.Name] = struct{}{}
				names[i] = append(names[i], a.Name)
			}
		}
	}
	out := make([]PoleTotal, len(poles))
	for i, p := range poles {
		out[i] = PoleTotal{Pole: p, TotalDays: Round(sums[i], 1), Activities: names[i]}
	}
	return out
}

// PoleDays returns the total for one pole out of a PoleTotals result.
func PoleDays(totals []PoleTotal, pole roster.Pole) float64 {
	for _, t := range totals {
		if t.Pole == pole {
			return t.TotalDays
		}
	}
	return 0
}

// GlobalTotals sums day and ads figures over projects. The average is taken
// from the unrounded sum and is 0 for an empty list. TotalHours is left to
// the engine, which knows the day length.
func GlobalTotals(projects []roster.Project) Totals {
	days := sumStored(projects)
	var ads float64
	for _, p := range projects {
		ads += p.TotalAdsCount
	}
	totals := Totals{
		TotalDaysSold: Round(days, 1),
		TotalAdsCount: Round(ads, 1),
		ProjectCount:  len(projects),
	}
	if len(projects) > 0 {
		totals.AverageDaysPerProject = Round(days/float64(len(projects)), 1)
	}
	return totals
}

// RankByStoredTotal returns a copy sorted by the stored day total, largest
// first. Ties keep their roster order.
func RankByStoredTotal(projects []roster.Project) []roster.Project {
	out := make([]roster.Project, len(projects))
	copy(out, projects)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalDaysSold > out[j].TotalDaysSold
	})
	return out
}

// ProjectBreakdowns splits each project's activity days by pole and relates
// them to the stored total. Results are ordered by stored total, largest first.
func ProjectBreakdowns(projects []roster.Project) []Breakdown {
	ranked := RankByStoredTotal(projects)
	out := make([]Breakdown, 0, len(ranked))
	for _, p := range ranked {
		raw := make(map[roster.Pole]float64, 4)
		for _, a := range p.Activities {
			raw[a.Pole] += a.Days
		}
		b := Breakdown{
			Client:      p.Client,
			DisplayName: roster.DisplayName(p.Client),
			ClientType:  p.ClientType,
			TotalDays:   p.TotalDaysSold,
			AdsCount:    p.TotalAdsCount,
			Poles:       make(map[roster.Pole]float64, 4),
		}
		if p.TotalDaysSold > 0 {
			b.Shares = make(map[roster.Pole]float64, 4)
		}
		for _, pole := range roster.Poles() {
			b.Poles[pole] = Round(raw[pole], 1)
			if b.Shares != nil && raw[pole] > 0 {
				b.Shares[pole] = Round(raw[pole]/p.TotalDaysSold*100, 1)
			}
		}
		out = append(out, b)
	}
	return out
}

// FormatDuration renders a day figure the way the dashboard shows it:
// minutes below one hour, hours below one day, days otherwise. Days are
// rounded to three decimals before conversion.
func FormatDuration(days, hoursPerDay float64) string {
	clean := Round(days, 3)
	hours := clean * hoursPerDay
	switch {
	case hours < 1:
		return formatNumber(math.Round(hours*60)) + " min"
	case clean < 1:
		return formatNumber(Round(hours, 1)) + "h"
	default:
		return formatNumber(Round(clean, 1)) + "j"
	}
}

func formatNumber(v float64) string {
	if v == 0 {
		// drop the sign of negative zero
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sumStored(projects []roster.Project) float64 {
	var sum float64
	for _, p := range projects {
		sum += p.TotalDaysSold
	}
	return sum
}
