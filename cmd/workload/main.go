package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/acquisition-ops/workload/cmd/workload/cli"
	"github.com/acquisition-ops/workload/internal/app"
	"github.com/acquisition-ops/workload/internal/observability"
	planninghttp "github.com/acquisition-ops/workload/internal/planning/http"
	"github.com/acquisition-ops/workload/internal/platform/cache"
	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/view"
	"github.com/acquisition-ops/workload/internal/workload"
	"github.com/acquisition-ops/workload/internal/workload/export"
	workloadhttp "github.com/acquisition-ops/workload/internal/workload/http"
	"github.com/acquisition-ops/workload/internal/workload/ui"
	"github.com/acquisition-ops/workload/jobs"
	"github.com/acquisition-ops/workload/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "workload:", err)
		os.Exit(1)
	}
}

type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// exitCode turns a command exit code into a cobra error.
func exitCode(code int) error {
	if code == 0 {
		return nil
	}
	return exitError{code: code}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "workload",
		Short:         "Acquisition pole workload dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.LoadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCommand(), newSummaryCommand(), newRosterCommand(), newJobsCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newSummaryCommand() *cobra.Command {
	var opts cli.SummaryOptions
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			source, err := loadRoster(cfg)
			if err != nil {
				return err
			}
			svc := workload.NewService(source, workload.NewEngine(cfg.Workload()), nil)
			opts.Stdout, opts.Stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
			return exitCode(cli.SummaryCommand(cmd.Context(), svc, opts))
		},
	}
	cmd.Flags().StringVar(&opts.Filter, "filter", "all", "client filter: all, ecommerce or non-ecommerce")
	cmd.Flags().StringSliceVar(&opts.DisabledClients, "disable-client", nil, "client to switch off (repeatable)")
	cmd.Flags().StringSliceVar(&opts.DisabledActivities, "disable-activity", nil, "client:activity to switch off (repeatable)")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "print JSON")
	return cmd
}

func newRosterCommand() *cobra.Command {
	rosterCmd := &cobra.Command{Use: "roster", Short: "Roster maintenance"}
	var file string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a roster document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = os.Getenv("ROSTER_PATH")
			}
			return exitCode(cli.ValidateRosterCommand(file, cmd.OutOrStdout(), cmd.ErrOrStderr()))
		},
	}
	validate.Flags().StringVar(&file, "file", "", "roster JSON file (defaults to ROSTER_PATH, then the embedded roster)")
	rosterCmd.AddCommand(validate)
	return rosterCmd
}

func newJobsCommand() *cobra.Command {
	jobsCmd := &cobra.Command{Use: "jobs", Short: "Background job helpers"}

	var warmup cli.WarmupOptions
	warmupCmd := &cobra.Command{
		Use:   "warmup",
		Short: "Enqueue a dashboard cache warmup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			c := cli.NewJobsCLI(cfg.RedisAddr)
			defer c.Close()
			warmup.Stdout, warmup.Stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
			return exitCode(c.WarmupCommand(cmd.Context(), warmup))
		},
	}
	warmupCmd.Flags().StringSliceVar(&warmup.Filters, "filter", nil, "filters to warm (default all)")
	warmupCmd.Flags().BoolVar(&warmup.Reset, "reset", false, "bump the cache version first")
	warmupCmd.Flags().BoolVar(&warmup.JSONOutput, "json", false, "print JSON")

	var statsJSON bool
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show queue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			c := cli.NewJobsCLI(cfg.RedisAddr)
			defer c.Close()
			return exitCode(c.StatsCommand(cmd.Context(), statsJSON, cmd.OutOrStdout(), cmd.ErrOrStderr()))
		},
	}
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON")

	jobsCmd.AddCommand(warmupCmd, statsCmd)
	return jobsCmd
}

func loadRoster(cfg *app.Config) (*roster.Roster, error) {
	if cfg.RosterPath != "" {
		return roster.LoadFile(cfg.RosterPath)
	}
	return roster.Default()
}

func runServe(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return err
	}

	logger := app.NewLogger(cfg)

	source, err := loadRoster(cfg)
	if err != nil {
		logger.Error("load roster", slog.Any("error", err))
		return err
	}
	logger.Info("roster loaded", slog.Int("projects", source.Len()))

	var (
		redisClient    *redis.Client
		dashboardCache *workload.Cache
	)
	if cfg.CacheEnabled {
		redisClient, err = cache.New(ctx, cache.Options{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Warn("redis unavailable, serving without cache", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			dashboardCache = workload.NewCache(redisClient, cfg.CacheTTL)
			if err := dashboardCache.ListenForInvalidation(ctx, workload.BumpChannel); err != nil {
				logger.Warn("cache invalidation listener", slog.Any("error", err))
			}
		}
	}

	engine := workload.NewEngine(cfg.Workload())
	service := workload.NewService(source, engine, dashboardCache)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		return err
	}

	reportClient := report.NewClient(cfg.GotenbergURL)
	pdfExporter := export.NewPDFExporter(reportClient)
	workloadHandler := workloadhttp.NewHandler(logger, service, engine, templates, ui.Renderers{}, ui.Renderers{}, pdfExporter)
	planningHandler := planninghttp.NewHandler(logger, templates, cfg.PlanningCycles, cfg.Location())

	metrics := observability.NewMetrics()

	var jobHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	} else {
		jobHandler = jobs.NewHandler(nil, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		WorkloadHandler: workloadHandler,
		PlanningHandler: planningHandler,
		ReportHandler:   report.NewHandler(reportClient, logger),
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Error("http server", slog.Any("error", err))
			return err
		}
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
		return err
	}
	return nil
}
