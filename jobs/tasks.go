package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/acquisition-ops/workload/internal/workload"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup precomputes cached dashboards.
	TaskDashboardWarmup = "workload:dashboard_warmup"
)

// DashboardWarmupPayload selects which dashboards to warm.
type DashboardWarmupPayload struct {
	Filters []string `json:"filters,omitempty"`
	// Reset bumps the cache version before warming.
	Reset bool `json:"reset,omitempty"`
}

// NewDashboardWarmupTask constructs an Asynq task. Unknown filters are
// rejected before anything is queued.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	if _, err := payload.filters(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}

// filters resolves the requested filters, defaulting to all of them.
func (p DashboardWarmupPayload) filters() ([]workload.ClientFilter, error) {
	if len(p.Filters) == 0 {
		return workload.Filters(), nil
	}
	seen := make(map[workload.ClientFilter]struct{}, len(p.Filters))
	out := make([]workload.ClientFilter, 0, len(p.Filters))
	for _, raw := range p.Filters {
		f, err := workload.ParseClientFilter(raw)
		if err != nil {
			return nil, fmt.Errorf("warmup payload: %w", err)
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}
