package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"homebase/internal/api"
	"homebase/internal/cli"
	"homebase/internal/config"
	"homebase/internal/logging"
	"homebase/internal/realtime"
	"homebase/internal/repository/sqlite"
)

// Environment is chosen with HB_ENV and decides where data lives.
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// getEnvironment falls back to production for unset or unknown values.
func getEnvironment() Environment {
	switch env := Environment(os.Getenv("HB_ENV")); env {
	case Development, Testing:
		return env
	default:
		return Production
	}
}

// openRepository picks the store for env: ./hb.db in development, memory
// in testing, and the configured path otherwise.
func (env Environment) openRepository(ctx context.Context, cfg *config.Config) (sqlite.Repository, error) {
	switch env {
	case Development:
		repo, err := sqlite.NewWithContext(ctx, "hb.db")
		if err != nil {
			return nil, fmt.Errorf("failed to initialize development database: %w", err)
		}
		return repo, nil
	case Testing:
		return config.CreateTestRepository()
	default:
		return config.CreateRepository(ctx, cfg)
	}
}

// closers releases resources in reverse order of acquisition.
type closers []func() error

func (c closers) close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i]())
	}
	return stderrors.Join(errs...)
}

// newRuntime builds what a command needs after flags are applied: the
// logger, storage, the event bus and the business API.
func newRuntime(ctx context.Context, cfg *config.Config) (*cli.Runtime, error) {
	log, err := logging.New(logging.Options{
		Mode:  cfg.Application.LogMode,
		Level: cfg.Application.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if !cfg.Application.Verbose && !logging.DebugEnabled() {
		gin.SetMode(gin.ReleaseMode)
	}

	env := getEnvironment()
	log.Debug("starting", "env", env, "db", cfg.GetDatabasePath())

	var owned closers
	fail := func(err error) (*cli.Runtime, error) {
		_ = owned.close()
		log.Sync()
		return nil, err
	}

	repo, err := env.openRepository(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	owned = append(owned, repo.Close)

	bus, err := realtime.NewBus(ctx, cfg.Redis, log.With("component", "Bus"))
	if err != nil {
		return fail(fmt.Errorf("failed to connect event bus: %w", err))
	}
	owned = append(owned, bus.Close)

	businessAPI, err := api.New(cfg, repo, bus, log)
	if err != nil {
		return fail(err)
	}

	return &cli.Runtime{
		API: businessAPI,
		Bus: bus,
		Log: log,
		Close: func() error {
			defer log.Sync()
			return owned.close()
		},
	}, nil
}
