package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"todo/internal/repository/sqlite"
)

// CreateRepository opens the store described by config.
func CreateRepository(ctx context.Context, config *Config, logger *slog.Logger) (sqlite.Repository, error) {
	path := sqlite.InMemory
	if !config.Database.InMemory {
		if err := os.MkdirAll(config.Database.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = config.GetDatabasePath()
	}

	repo, err := sqlite.NewWithOptions(ctx, sqlite.Options{
		Path:        path,
		BusyTimeout: config.Database.BusyTimeout,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.NewInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}
