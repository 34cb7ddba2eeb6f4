package planning

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultCycles is the number of cycles shown when none is configured.
	DefaultCycles = 6
	// MaxCycles bounds the generated horizon.
	MaxCycles = 24

	weeksPerCycle = 4
	workingDays   = 5
)

// weekOrder maps the position inside a cycle to its workflow week.
var weekOrder = [weeksPerCycle]int{4, 1, 2, 3}

var (
	frenchMonths = [...]string{
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	}
	frenchDays = [...]string{
		"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi",
	}
)

// Day is one working day of a planned week.
type Day struct {
	Date       time.Time `json:"date"`
	DayName    string    `json:"dayName"`
	DayNumber  int       `json:"dayNumber"`
	ShortLabel string    `json:"shortLabel"`
	Task       string    `json:"task,omitempty"`
}

// Week is one calendar week of a cycle.
type Week struct {
	WeekNumber int       `json:"weekNumber"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	MonthName  string    `json:"monthName"`
	Days       []Day     `json:"days"`
	Workflow   Step      `json:"workflow"`
}

// Cycle groups four consecutive weeks.
type Cycle struct {
	CycleNumber int    `json:"cycleNumber"`
	Weeks       []Week `json:"weeks"`
	MainMonth   string `json:"mainMonth"`
	Period      string `json:"period"`
}

// ClampCycles keeps n within 1..MaxCycles, using DefaultCycles for zero.
func ClampCycles(n int) int {
	switch {
	case n == 0:
		return DefaultCycles
	case n < 1:
		return 1
	case n > MaxCycles:
		return MaxCycles
	}
	return n
}

// AnchorMonday returns the Monday the first cycle starts on. Weekdays count
// from Sunday, so a Sunday anchors on the following day.
func AnchorMonday(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, 1-int(local.Weekday()))
}

// Generate builds n cycles starting at the anchor Monday of now.
func Generate(now time.Time, n int, loc *time.Location) []Cycle {
	n = ClampCycles(n)
	anchor := AnchorMonday(now, loc)

	cycles := make([]Cycle, 0, n)
	for c := 0; c < n; c++ {
		weeks := make([]Week, 0, weeksPerCycle)
		for w := 0; w < weeksPerCycle; w++ {
			start := anchor.AddDate(0, 0, (c*weeksPerCycle+w)*7)
			step, _ := StepForWeek(weekOrder[w])
			week := Week{
				WeekNumber: step.Week,
				StartDate:  start,
				EndDate:    start.AddDate(0, 0, 6),
				MonthName:  MonthName(start.Month()),
				Workflow:   step,
			}
			for d := 0; d < workingDays; d++ {
				date := start.AddDate(0, 0, d)
				day := Day{
					Date:       date,
					DayName:    frenchDays[date.Weekday()],
					DayNumber:  date.Day(),
					ShortLabel: ShortLabel(date),
				}
				if d < len(step.Tasks) {
					day.Task = step.Tasks[d]
				}
				week.Days = append(week.Days, day)
			}
			weeks = append(weeks, week)
		}
		cycles = append(cycles, Cycle{
			CycleNumber: c + 1,
			Weeks:       weeks,
			MainMonth:   weeks[1].MonthName,
			Period:      weeks[0].Days[0].ShortLabel + " - " + weeks[weeksPerCycle-1].Days[workingDays-1].ShortLabel,
		})
	}
	return cycles
}

// MonthName returns the capitalised French name of m.
func MonthName(m time.Month) string {
	return cases.Title(language.French).String(frenchMonths[m-1])
}

// DayName returns the capitalised French name of d.
func DayName(d time.Weekday) string {
	return cases.Title(language.French).String(frenchDays[d])
}

// ShortLabel formats t as dd/mm.
func ShortLabel(t time.Time) string {
	return fmt.Sprintf("%02d/%02d", t.Day(), int(t.Month()))
}
