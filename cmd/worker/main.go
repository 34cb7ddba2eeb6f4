package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/hibiken/asynq"

	"github.com/acquisition-ops/workload/internal/app"
	jobmetrics "github.com/acquisition-ops/workload/internal/jobs"
	"github.com/acquisition-ops/workload/internal/platform/cache"
	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/workload"
	"github.com/acquisition-ops/workload/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.LoadDotEnv(); err != nil {
		slog.Default().Error("load .env", slog.Any("error", err))
		os.Exit(1)
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var source *roster.Roster
	if cfg.RosterPath != "" {
		source, err = roster.LoadFile(cfg.RosterPath)
	} else {
		source, err = roster.Default()
	}
	if err != nil {
		logger.Error("load roster", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	service := workload.NewService(source, workload.NewEngine(cfg.Workload()), workload.NewCache(redisClient, cfg.CacheTTL))
	warmupJob := jobs.NewDashboardWarmupJob(service, logger, jobmetrics.NewMetrics(nil))

	warmupTask, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Location:  cfg.Location(),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDashboardWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started", slog.String("cron", cfg.WarmupCron))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
