package cli

import (
	"context"
	"log/slog"

	"todo/internal/api"
	"todo/internal/config"
	"todo/internal/services"
)

// StoreBackend opens the SQLite store configured by cfg.
func StoreBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (api.API, func() error, error) {
	repo, err := config.CreateRepository(ctx, cfg, log)
	if err != nil {
		return api.API{}, nil, err
	}
	svc := services.NewStorageService(repo, services.WithLogger(log))
	return api.New(svc), repo.Close, nil
}
