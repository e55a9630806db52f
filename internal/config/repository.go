package config

import (
	"context"
	"fmt"
	"os"

	"homebase/internal/repository/sqlite"
)

// CreateRepository opens the database file named by config, making its
// directory first. Migrations run before it returns.
func CreateRepository(ctx context.Context, config *Config) (sqlite.Repository, error) {
	dir := config.Database.Dir
	if err := os.MkdirAll(dir, os.FileMode(config.Database.DirPermissions)); err != nil {
		return nil, fmt.Errorf("create database directory %s: %w", dir, err)
	}
	return open(ctx, config.GetDatabasePath())
}

// CreateTestRepository returns a migrated in-memory store.
func CreateTestRepository() (sqlite.Repository, error) {
	return open(context.Background(), ":memory:")
}

func open(ctx context.Context, path string) (sqlite.Repository, error) {
	repo, err := sqlite.NewWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("initialize database %s: %w", path, err)
	}
	return repo, nil
}
