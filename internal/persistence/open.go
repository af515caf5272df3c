package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"example.com/workoutmap/internal/config"
	"example.com/workoutmap/internal/persistence/memory"
	"example.com/workoutmap/internal/persistence/postgres"
	"example.com/workoutmap/internal/persistence/sqlite"
)

// OpenBlobStore connects the backend selected by cfg.StorageBackend. The
// returned close function releases it.
func OpenBlobStore(ctx context.Context, cfg config.Config, log *zap.Logger) (BlobStore, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		store := postgres.NewBlobStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, pool.Close, nil
	case config.BackendMemory:
		return memory.NewBlobStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
