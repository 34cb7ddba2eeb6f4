package ui

import (
	"net/url"
	"sort"
	"strings"

	"github.com/acquisition-ops/workload/internal/workload"
)

// Query parameter names carrying the what-if state.
const (
	ParamFilter           = "filter"
	ParamDisabledClient   = "disabled_client"
	ParamDisabledActivity = "disabled_activity"
)

// State is the dashboard state encoded in the URL. Nothing is kept server side.
type State struct {
	Filter     workload.ClientFilter
	Clients    []string
	Activities []string
}

// ParseState reads the filter and overlay from query values.
func ParseState(values url.Values) (State, error) {
	filter, err := workload.ParseClientFilter(values.Get(ParamFilter))
	if err != nil {
		return State{}, err
	}
	return State{
		Filter:     filter,
		Clients:    normalise(values[ParamDisabledClient]),
		Activities: normalise(values[ParamDisabledActivity]),
	}, nil
}

// Query converts the state into a service query.
func (s State) Query() workload.Query {
	return workload.Query{Filter: s.Filter, Overlay: workload.NewOverlay(s.Clients, s.Activities)}
}

// WithFilter returns a copy with another filter and the same overlay.
func (s State) WithFilter(f workload.ClientFilter) State {
	s.Filter = f
	return s
}

// ToggleClient returns a copy with client switched.
func (s State) ToggleClient(client string) State {
	s.Clients = toggle(s.Clients, client)
	return s
}

// ToggleActivity returns a copy with the composite activity key switched.
func (s State) ToggleActivity(client, activity string) State {
	s.Activities = toggle(s.Activities, workload.ActivityKey(client, activity))
	return s
}

// Reset returns the state with the overlay cleared.
func (s State) Reset() State {
	return State{Filter: s.Filter}
}

// Values encodes the state as query values.
func (s State) Values() url.Values {
	values := url.Values{}
	if s.Filter != "" && s.Filter != workload.FilterAll {
		values.Set(ParamFilter, string(s.Filter))
	}
	for _, c := range s.Clients {
		values.Add(ParamDisabledClient, c)
	}
	for _, a := range s.Activities {
		values.Add(ParamDisabledActivity, a)
	}
	return values
}

// URL renders path with the encoded state.
func (s State) URL(path string) string {
	encoded := s.Values().Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

func toggle(list []string, item string) []string {
	out := make([]string, 0, len(list)+1)
	found := false
	for _, v := range list {
		if v == item {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

func normalise(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
