package workload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/acquisition-ops/workload/internal/roster"
)

// ErrUnknownFilter is returned when a client filter value is outside the closed set.
var ErrUnknownFilter = errors.New("workload: unknown client filter")

// ClientFilter scopes aggregation to a client type.
type ClientFilter string

const (
	FilterAll          ClientFilter = "all"
	FilterEcommerce    ClientFilter = "ecommerce"
	FilterNonEcommerce ClientFilter = "non-ecommerce"
)

// Filters lists the accepted filters in display order.
func Filters() []ClientFilter {
	return []ClientFilter{FilterAll, FilterEcommerce, FilterNonEcommerce}
}

// ParseClientFilter validates a raw filter value. The empty string maps to all.
func ParseClientFilter(raw string) (ClientFilter, error) {
	switch f := ClientFilter(strings.TrimSpace(raw)); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterEcommerce, FilterNonEcommerce:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, raw)
	}
}

// FilterByClientType returns the projects matching f in their original order.
// FilterAll returns every project.
func FilterByClientType(projects []roster.Project, f ClientFilter) []roster.Project {
	out := make([]roster.Project, 0, len(projects))
	for _, p := range projects {
		if f == FilterAll || string(p.ClientType) == string(f) {
			out = append(out, p)
		}
	}
	return out
}
