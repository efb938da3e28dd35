// Package app assembles the people store from configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/people/internal/config"
	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/handler"
	"github.com/prn-tf/people/internal/metrics"
	"github.com/prn-tf/people/internal/repository"
	"github.com/prn-tf/people/internal/repository/postgres"
	"github.com/prn-tf/people/internal/repository/sqlite"
	"github.com/prn-tf/people/internal/service"
)

// NewLogger builds the process logger. Format "console" writes
// human-readable lines; anything else writes JSON.
func NewLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// database is what the app needs from either backend.
type database interface {
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}

// App holds the wired services of one process.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	Users *service.UserService
	Stats *service.StatsService

	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics

	db database
}

// New opens the configured database, applies migrations and wires the
// services on top of it.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	var (
		db  database
		uow repository.UnitOfWork
	)

	switch cfg.Database.Driver {
	case "postgres":
		pg, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		db, uow = pg, pg.UnitOfWork()
	case "sqlite":
		lite, err := openSQLite(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		db, uow = lite, lite.UnitOfWork()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(metrics.NewRegistry())
		uow = metrics.InstrumentUnitOfWork(uow, m)
	}

	loc, err := cfg.Clock.Location()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid clock timezone: %w", err)
	}
	clock := domain.SystemClock{Location: loc}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Users:   service.NewUserService(uow, clock, m, logger),
		Stats:   service.NewStatsService(uow, clock, logger),
		Metrics: m,
		db:      db,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*sqlite.DB, error) {
	if cfg.Path != sqlite.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	liteCfg := sqlite.DefaultConfig(cfg.Path)
	if cfg.JournalMode != "" {
		liteCfg.JournalMode = cfg.JournalMode
	}
	if cfg.BusyTimeout > 0 {
		liteCfg.BusyTimeout = cfg.BusyTimeout
	}
	if cfg.CacheSize != 0 {
		liteCfg.CacheSize = cfg.CacheSize
	}
	if cfg.SynchronousMode != "" {
		liteCfg.SynchronousMode = cfg.SynchronousMode
	}
	return sqlite.NewDB(ctx, liteCfg, logger)
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	api := handler.NewAPIHandler(handler.APIConfig{
		UserService:  a.Users,
		StatsService: a.Stats,
		MaxBodySize:  a.Config.Server.MaxBodySize,
		Logger:       a.Logger,
	})

	routerCfg := handler.RouterConfig{
		API:    api,
		Health: a.db.Health,
		Logger: a.Logger,
	}
	if a.Metrics != nil {
		routerCfg.MetricsHandler = a.Metrics.Handler()
		routerCfg.MetricsPath = a.Config.Metrics.Path
	}
	return handler.NewRouter(routerCfg).Handler()
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}
