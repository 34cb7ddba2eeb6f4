package workload

import (
	"github.com/acquisition-ops/workload/internal/roster"
)

// Default organisational constants: two people at 35h/week with 7h days.
const (
	DefaultCapacityDays  = 40
	DefaultNearLimitDays = 36
	DefaultHoursPerDay   = 7
	DefaultWeeklyHours   = 35
)

// Config carries the organisational constants the engine computes against.
type Config struct {
	CapacityDays  float64
	NearLimitDays float64
	HoursPerDay   float64
	WeeklyHours   float64
}

// DefaultConfig returns the standard acquisition pole constants.
func DefaultConfig() Config {
	return Config{
		CapacityDays:  DefaultCapacityDays,
		NearLimitDays: DefaultNearLimitDays,
		HoursPerDay:   DefaultHoursPerDay,
		WeeklyHours:   DefaultWeeklyHours,
	}
}

func (c Config) normalised() Config {
	def := DefaultConfig()
	if c.CapacityDays <= 0 {
		c.CapacityDays = def.CapacityDays
	}
	if c.NearLimitDays <= 0 || c.NearLimitDays > c.CapacityDays {
		c.NearLimitDays = c.CapacityDays * def.NearLimitDays / def.CapacityDays
	}
	if c.HoursPerDay <= 0 {
		c.HoursPerDay = def.HoursPerDay
	}
	if c.WeeklyHours <= 0 {
		c.WeeklyHours = def.WeeklyHours
	}
	return c
}

// Engine binds the pure aggregation functions to a fixed Config. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine constructs an engine, substituting defaults for unset constants.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.normalised()}
}

// Config returns the effective constants.
func (e *Engine) Config() Config {
	return e.cfg
}

// Totals computes global figures on an overlay-adjusted project list and adds
// the hour conversion of the day total.
func (e *Engine) Totals(projects []roster.Project) Totals {
	totals := GlobalTotals(projects)
	totals.TotalHours = Round(sumStored(projects)*e.cfg.HoursPerDay, 1)
	return totals
}

// Capacity reports utilisation of a pole against the configured capacity.
func (e *Engine) Capacity(poleDays float64) Capacity {
	c := CapacityUtilization(poleDays, e.cfg.CapacityDays, e.cfg.NearLimitDays)
	c.CapacityHours = Round(e.cfg.CapacityDays*e.cfg.HoursPerDay, 1)
	c.RemainingHours = maxFloat(0, Round((e.cfg.CapacityDays-poleDays)*e.cfg.HoursPerDay, 1))
	return c
}

// FormatDuration renders days using the configured day length.
func (e *Engine) FormatDuration(days float64) string {
	return FormatDuration(days, e.cfg.HoursPerDay)
}

// Hours converts days to hours rounded to one decimal.
func (e *Engine) Hours(days float64) float64 {
	return Round(days*e.cfg.HoursPerDay, 1)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
