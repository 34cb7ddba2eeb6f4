package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads a counter sample from the registry by name and labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestTrackerRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	assert.NoError(t, m.Track("warmup").End(nil))
	boom := errors.New("boom")
	assert.Equal(t, boom, m.Track("warmup").End(boom))

	assert.Equal(t, 1.0, counterValue(t, reg, "workload_jobs_total", map[string]string{"job": "warmup", "status": "success"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "workload_jobs_total", map[string]string{"job": "warmup", "status": "failure"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "workload_jobs_failures_total", map[string]string{"job": "warmup"}))
}

func TestWarmedCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Warmed("ecommerce")
	m.Warmed("ecommerce")
	assert.Equal(t, 2.0, counterValue(t, reg, "workload_dashboards_warmed_total", map[string]string{"filter": "ecommerce"}))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.Warmed("all")
	assert.NoError(t, m.Track("warmup").End(nil))
}
