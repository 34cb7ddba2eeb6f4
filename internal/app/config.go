package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/acquisition-ops/workload/internal/planning"
	"github.com/acquisition-ops/workload/internal/workload"
)

// ErrInvalidConfig marks configuration rejected at startup.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	AppTimezone       string        `envconfig:"APP_TIMEZONE" default:"Europe/Paris"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	RedisAddr    string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CacheEnabled bool          `envconfig:"CACHE_ENABLED" default:"true"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	RosterPath     string  `envconfig:"ROSTER_PATH"`
	CapacityDays   float64 `envconfig:"CAPACITY_DAYS" default:"40"`
	NearLimitDays  float64 `envconfig:"NEAR_LIMIT_DAYS" default:"36"`
	HoursPerDay    float64 `envconfig:"HOURS_PER_DAY" default:"7"`
	WeeklyHours    float64 `envconfig:"WEEKLY_HOURS" default:"35"`
	PlanningCycles int     `envconfig:"PLANNING_CYCLES" default:"6"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`
	WarmupCron   string `envconfig:"WARMUP_CRON" default:"0 6 * * 1-5"`
}

// LoadDotEnv reads the given .env files into the environment when they
// exist. Variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch {
	case c.CapacityDays <= 0:
		return fmt.Errorf("%w: CAPACITY_DAYS must be positive", ErrInvalidConfig)
	case c.NearLimitDays <= 0 || c.NearLimitDays >= c.CapacityDays:
		return fmt.Errorf("%w: NEAR_LIMIT_DAYS must be between 0 and CAPACITY_DAYS", ErrInvalidConfig)
	case c.HoursPerDay <= 0 || c.HoursPerDay > 24:
		return fmt.Errorf("%w: HOURS_PER_DAY must be in (0, 24]", ErrInvalidConfig)
	case c.WeeklyHours <= 0:
		return fmt.Errorf("%w: WEEKLY_HOURS must be positive", ErrInvalidConfig)
	case c.PlanningCycles < 1 || c.PlanningCycles > planning.MaxCycles:
		return fmt.Errorf("%w: PLANNING_CYCLES must be in 1..%d", ErrInvalidConfig, planning.MaxCycles)
	case c.CacheEnabled && c.CacheTTL <= 0:
		return fmt.Errorf("%w: CACHE_TTL must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.AppTimezone); err != nil {
		return fmt.Errorf("%w: APP_TIMEZONE: %v", ErrInvalidConfig, err)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Workload returns the engine settings.
func (c *Config) Workload() workload.Config {
	return workload.Config{
		CapacityDays:  c.CapacityDays,
		NearLimitDays: c.NearLimitDays,
		HoursPerDay:   c.HoursPerDay,
		WeeklyHours:   c.WeeklyHours,
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
