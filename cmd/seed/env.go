package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/myshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/myshop-api/pkg/config"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// seedEnv conexión y logger compartidos por los subcomandos.
type seedEnv struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func open(ctx context.Context) (*seedEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	if cfg.App.Storage != config.StoragePostgres {
		return nil, fmt.Errorf("seed requiere APP_STORAGE=postgres")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &seedEnv{pool: pool, log: log}, nil
}

func (e *seedEnv) close() { e.pool.Close() }
