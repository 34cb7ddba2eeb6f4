package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hibiken/asynq"

	"github.com/acquisition-ops/workload/jobs"
)

// Enqueuer submits warmup tasks.
type Enqueuer interface {
	EnqueueDashboardWarmup(ctx context.Context, payload jobs.DashboardWarmupPayload) (*asynq.TaskInfo, error)
}

// QueueInspector reads queue state.
type QueueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	ListScheduledTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
}

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    Enqueuer
	inspector QueueInspector
	closers   []io.Closer
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) *JobsCLI {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client := jobs.NewClient(opts)
	inspector := asynq.NewInspector(opts)
	return &JobsCLI{client: client, inspector: inspector, closers: []io.Closer{client, inspector}}
}

// NewJobsCLIWith builds the helpers around existing collaborators.
func NewJobsCLIWith(client Enqueuer, inspector QueueInspector) *JobsCLI {
	return &JobsCLI{client: client, inspector: inspector}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	for _, cl := range c.closers {
		if closeErr := cl.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// WarmupOptions drives the warmup trigger command.
type WarmupOptions struct {
	Filters    []string
	Reset      bool
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// WarmupCommand enqueues a dashboard warmup and returns the exit code.
func (c *JobsCLI) WarmupCommand(ctx context.Context, opts WarmupOptions) int {
	opts.Stdout, opts.Stderr = outputs(opts.Stdout, opts.Stderr)
	if c == nil || c.client == nil {
		_, _ = fmt.Fprintln(opts.Stderr, "jobs warmup: client not configured")
		return 1
	}
	info, err := c.client.EnqueueDashboardWarmup(ctx, jobs.DashboardWarmupPayload{Filters: opts.Filters, Reset: opts.Reset})
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "jobs warmup: %v\n", err)
		return 1
	}
	if opts.JSONOutput {
		out := map[string]string{"id": info.ID, "queue": info.Queue, "type": info.Type}
		if err := json.NewEncoder(opts.Stdout).Encode(out); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs warmup: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	_, _ = fmt.Fprintf(opts.Stdout, "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	return 0
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}

// StatsCommand prints queue statistics.
func (c *JobsCLI) StatsCommand(ctx context.Context, jsonOutput bool, stdout, stderr io.Writer) int {
	stdout, stderr = outputs(stdout, stderr)
	stats, err := c.InspectQueue(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "jobs stats: %v\n", err)
		return 1
	}
	if jsonOutput {
		if err := json.NewEncoder(stdout).Encode(stats); err != nil {
			_, _ = fmt.Fprintf(stderr, "jobs stats: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	_, _ = fmt.Fprintf(stdout, "queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
		stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	return 0
}

// ListScheduled returns scheduled task infos for observability.
func (c *JobsCLI) ListScheduled(ctx context.Context, size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListScheduledTasks(jobs.QueueDefault, asynq.PageSize(size), asynq.Page(1))
}

func outputs(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}
