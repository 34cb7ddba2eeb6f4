package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/acquisition-ops/workload/internal/jobs"
	"github.com/acquisition-ops/workload/internal/workload"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// DashboardService is the slice of workload.Service the warmup needs.
type DashboardService interface {
	Dashboard(ctx context.Context, q workload.Query) (workload.Dashboard, error)
	Cache() *workload.Cache
}

// DashboardWarmupJob fills the dashboard cache for the unfiltered overlay of
// each client filter.
type DashboardWarmupJob struct {
	Service DashboardService
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Timeout time.Duration
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(svc DashboardService, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Service: svc,
		Logger:  logger,
		Metrics: metrics,
		Timeout: 20 * time.Second,
	}
}

// Handle processes TaskDashboardWarmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("dashboard warmup: %v: %w", err, asynq.SkipRetry)
	}
	filters, err := payload.filters()
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return j.Run(ctx, filters, payload.Reset)
}

// Run warms the given filters concurrently.
func (j *DashboardWarmupJob) Run(ctx context.Context, filters []workload.ClientFilter, reset bool) (resultErr error) {
	tracker := j.metrics().Track(TaskDashboardWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("filters", len(filters)), slog.Bool("reset", reset))
	start := time.Now()
	logger.Info("starting dashboard warmup")

	if reset {
		if cache := j.Service.Cache(); cache != nil {
			version, err := cache.Bump(ctx)
			if err != nil {
				logger.Error("bump cache version", slog.Any("error", err))
				return err
			}
			logger.Info("cache version bumped", slog.Int64("version", version))
		}
	}

	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	for _, f := range filters {
		g.Go(func() error {
			if _, err := j.Service.Dashboard(gctx, workload.Query{Filter: f}); err != nil {
				return fmt.Errorf("warm %s: %w", f, err)
			}
			j.metrics().Warmed(string(f))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("dashboard warmup", slog.Any("error", err))
		return err
	}

	logger.Info("completed dashboard warmup", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
