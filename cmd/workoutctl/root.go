package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/workoutmap/internal/config"
	"example.com/workoutmap/internal/domain"
	"example.com/workoutmap/internal/logger"
	"example.com/workoutmap/internal/persistence"
	"example.com/workoutmap/internal/view"
)

// session is one CLI invocation's view of the persisted workouts.
type session struct {
	service *domain.Service
	gateway *persistence.Gateway
	close   func()
}

func newRootCmd(out io.Writer) *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:           "workoutctl",
		Short:         "Log, inspect and edit map workouts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	flags := root.PersistentFlags()
	flags.String("backend", cfg.StorageBackend, "Storage backend (sqlite|postgres|memory) (or set STORAGE_BACKEND)")
	flags.String("db", cfg.SQLitePath, "SQLite database file (or set SQLITE_PATH)")
	flags.String("postgres-url", cfg.PostgresURL, "Postgres connection string (or set POSTGRES_URL)")
	flags.String("key", cfg.StorageKey, "Blob key the workouts are stored under (or set STORAGE_KEY)")
	flags.String("log-level", "error", "Log level (debug|info|warn|error)")

	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newShowCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newClearCmd(),
		newResetCmd(),
		newExportCmd(),
	)
	return root
}

// sessionConfig overlays the persistent flags on the environment configuration.
func sessionConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	flags := cmd.Root().PersistentFlags()

	var err error
	for _, f := range []struct {
		name   string
		target *string
	}{
		{"backend", &cfg.StorageBackend},
		{"db", &cfg.SQLitePath},
		{"postgres-url", &cfg.PostgresURL},
		{"key", &cfg.StorageKey},
		{"log-level", &cfg.LogLevel},
	} {
		if *f.target, err = flags.GetString(f.name); err != nil {
			return config.Config{}, err
		}
	}
	cfg.StorageBackend = strings.ToLower(cfg.StorageBackend)
	return cfg, nil
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := sessionConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewWithWriter(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	ctx := cmdContext(cmd)
	store, closeStore, err := persistence.OpenBlobStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	gateway := persistence.NewGateway(store, cfg.StorageKey)
	views := view.NewSynchronizer(view.NewBoard(), view.WithLogger(log))
	service := domain.NewService(gateway, views, domain.WithLogger(log))

	if err := service.Restore(ctx); err != nil {
		log.Warn("stored workouts are unreadable; starting empty", zap.Error(err))
	}
	service.MapReady(ctx)

	return &session{
		service: service,
		gateway: gateway,
		close: func() {
			logger.Flush(log)
			closeStore()
		},
	}, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
