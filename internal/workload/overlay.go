package workload

import (
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/acquisition-ops/workload/internal/roster"
)

// ActivityKey is the composite identity used to disable a single activity.
func ActivityKey(client, activity string) string {
	return client + ":" + activity
}

// Overlay is a caller-owned what-if state: clients and activities that should
// contribute nothing to the aggregates.
type Overlay struct {
	DisabledClients    map[string]struct{}
	DisabledActivities map[string]struct{}
}

// NewOverlay builds an overlay from client names and composite activity keys.
func NewOverlay(clients, activityKeys []string) Overlay {
	o := Overlay{
		DisabledClients:    make(map[string]struct{}, len(clients)),
		DisabledActivities: make(map[string]struct{}, len(activityKeys)),
	}
	for _, c := range clients {
		if c != "" {
			o.DisabledClients[c] = struct{}{}
		}
	}
	for _, k := range activityKeys {
		if k != "" {
			o.DisabledActivities[k] = struct{}{}
		}
	}
	return o
}

// ClientDisabled reports whether the client is switched off.
func (o Overlay) ClientDisabled(client string) bool {
	_, ok := o.DisabledClients[client]
	return ok
}

// ActivityDisabled reports whether the (client, activity) pair is switched off.
func (o Overlay) ActivityDisabled(client, activity string) bool {
	_, ok := o.DisabledActivities[ActivityKey(client, activity)]
	return ok
}

// Empty reports whether the overlay disables nothing.
func (o Overlay) Empty() bool {
	return len(o.DisabledClients) == 0 && len(o.DisabledActivities) == 0
}

// Clients returns disabled clients sorted.
func (o Overlay) Clients() []string {
	return sortedKeys(o.DisabledClients)
}

// Activities returns disabled activity keys sorted.
func (o Overlay) Activities() []string {
	return sortedKeys(o.DisabledActivities)
}

// Digest is a stable fingerprint of the overlay, "-" when empty.
func (o Overlay) Digest() string {
	if o.Empty() {
		return "-"
	}
	h := fnv.New64a()
	for _, c := range o.Clients() {
		_, _ = h.Write([]byte("c\x00" + c + "\x00"))
	}
	for _, a := range o.Activities() {
		_, _ = h.Write([]byte("a\x00" + a + "\x00"))
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// ApplyOverlay returns an independent copy of projects with the overlay
// applied. A disabled client has its totals and every activity zeroed. For
// other clients the day total is recomputed from the activities that remain
// enabled and the ads count passes through.
func ApplyOverlay(projects []roster.Project, o Overlay) []roster.Project {
	out := make([]roster.Project, len(projects))
	for i, p := range projects {
		cp := p.Clone()
		if o.ClientDisabled(p.Client) {
			cp.TotalDaysSold = 0
			cp.TotalAdsCount = 0
			for j := range cp.Activities {
				cp.Activities[j].Days = 0
			}
			out[i] = cp
			continue
		}
		var total float64
		for j, a := range cp.Activities {
			if o.ActivityDisabled(p.Client, a.Name) {
				cp.Activities[j].Days = 0
				continue
			}
			total += a.Days
		}
		cp.TotalDaysSold = total
		out[i] = cp
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
