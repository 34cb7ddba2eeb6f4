package workload

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/acquisition-ops/workload/internal/roster"
)

// ErrUnknownPole is returned when a pole query value is outside the closed set.
var ErrUnknownPole = errors.New("workload: unknown pole")

// CapacityStatus classifies utilisation against the monthly quota.
type CapacityStatus string

const (
	StatusOK         CapacityStatus = "ok"
	StatusNearLimit  CapacityStatus = "near_limit"
	StatusOverloaded CapacityStatus = "overloaded"
)

// Capacity describes how much of the monthly quota a pole consumes.
// PercentUsed is not clamped; BarPercent is capped at 100 for gauges.
type Capacity struct {
	PoleDays       float64        `json:"poleDays"`
	CapacityDays   float64        `json:"capacityDays"`
	CapacityHours  float64        `json:"capacityHours"`
	PercentUsed    float64        `json:"percentUsed"`
	BarPercent     float64        `json:"barPercent"`
	RemainingDays  float64        `json:"remainingDays"`
	RemainingHours float64        `json:"remainingHours"`
	Status         CapacityStatus `json:"status"`
}

// ParsePole validates a pole identifier, case-insensitively.
func ParsePole(raw string) (roster.Pole, error) {
	p := roster.Pole(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPole, raw)
	}
	return p, nil
}

// CapacityUtilization relates poleDays to capacityDays. Above capacity is
// overloaded, above nearLimitDays is near_limit, anything else is ok.
func CapacityUtilization(poleDays, capacityDays, nearLimitDays float64) Capacity {
	c := Capacity{
		PoleDays:      poleDays,
		CapacityDays:  capacityDays,
		RemainingDays: math.Max(0, Round(capacityDays-poleDays, 1)),
	}
	if capacityDays > 0 {
		raw := poleDays / capacityDays * 100
		c.PercentUsed = Round(raw, 1)
		c.BarPercent = math.Min(raw, 100)
	}
	switch {
	case poleDays > capacityDays:
		c.Status = StatusOverloaded
	case poleDays > nearLimitDays:
		c.Status = StatusNearLimit
	default:
		c.Status = StatusOK
	}
	return c
}
