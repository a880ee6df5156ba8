package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
	_ "modernc.org/sqlite"

	"github.com/jess-sol/kyoo/internal/config"
	"github.com/jess-sol/kyoo/internal/episode"
	"github.com/jess-sol/kyoo/internal/events"
	"github.com/jess-sol/kyoo/internal/library"
	"github.com/jess-sol/kyoo/internal/migrations"
)

// app holds everything a command needs once the database is open.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *sql.DB
	store     *library.Store
	providers *library.ProviderStore
	eventLog  *events.EventLog
	bus       *events.Bus
	episodes  *episode.Repository
	logFile   io.Closer
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig reads --config, or the discovered file, or falls back to defaults
// when no file exists anywhere.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}

// newLogger builds the slog logger. With a log file configured, output goes
// to a rotating file; the returned closer is nil otherwise.
func newLogger(cfg config.LogConfig, stderr io.Writer) (*slog.Logger, io.Closer) {
	var w io.Writer = stderr
	var closer io.Closer
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		w, closer = lj, lj
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)})), closer
}

// openDB opens the sqlite database at path and applies the schema.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dsn = "file:" + path
	}
	db, err := sql.Open("sqlite", dsn+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// sqlite serializes writers; one connection also keeps :memory: a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, logFile := newLogger(cfg.Log, os.Stderr)

	db, err := openDB(ctx, cfg.Database.Path)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		store:     library.NewStore(db),
		providers: library.NewProviderStore(db),
		eventLog:  events.NewEventLog(db),
		logFile:   logFile,
	}

	var publisher episode.Publisher
	if cfg.Events.Enabled {
		a.bus = events.NewBus(a.eventLog, logger.With("component", "bus"))
		publisher = a.bus
		if cfg.Events.Retention > 0 {
			pruned, err := a.eventLog.Prune(ctx, cfg.Events.Retention)
			if err != nil {
				logger.Warn("event prune failed", "error", err)
			} else if pruned > 0 {
				logger.Debug("pruned events", "count", pruned, "retention", cfg.Events.Retention)
			}
		}
	}
	a.episodes = episode.NewRepository(a.store, a.providers, publisher, logger)
	return a, nil
}

func (a *app) Close() error {
	if a.bus != nil {
		_ = a.bus.Close()
	}
	err := a.db.Close()
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
	return err
}

// withApp opens the app for the duration of fn.
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(a)
}
