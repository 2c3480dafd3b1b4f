package app

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/filmorate/internal/config"
	"github.com/oggyb/filmorate/internal/db"
	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/redisstore"
	"github.com/oggyb/filmorate/internal/repository"
	"github.com/oggyb/filmorate/internal/storage"
	"github.com/oggyb/filmorate/internal/storage/memory"
)

// AppContext holds shared dependencies (storage backend, Logger, etc.)
type AppContext struct {
	Storage storage.Storage
	Logger  *slog.Logger

	// DB is set when the relational backend is active.
	DB *gorm.DB
	// closers run on Close in reverse order.
	closers []func() error
}

// New creates a new AppContext
func New(store storage.Storage, logger *slog.Logger) *AppContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppContext{
		Storage: store,
		Logger:  logger,
	}
}

// Open builds the AppContext for the backend selected by cfg.Storage.Backend,
// seeding the fixed catalogs where the backend needs it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*AppContext, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Storage.Backend {
	case config.BackendMemory, "":
		logger.Info("using in-memory storage")
		return New(memory.NewDefault().Storage(), logger), nil

	case config.BackendSQL:
		database, err := db.NewDB(cfg, levelOf(ctx, logger))
		if err != nil {
			return nil, err
		}
		logger.Info("using relational storage", "driver", cfg.DB.Driver)
		appCtx := New(repository.NewStorage(database), logger)
		appCtx.DB = database
		appCtx.onClose(func() error {
			sqlDB, err := database.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		return appCtx, nil

	case config.BackendRedis:
		client := redisstore.NewClient(cfg)
		store := redisstore.New(client)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		if err := store.SeedCatalog(ctx, model.DefaultGenres, model.DefaultMpaRatings); err != nil {
			_ = client.Close()
			return nil, err
		}
		logger.Info("using redis storage", "addr", cfg.Redis.Addr)
		appCtx := New(store.Storage(), logger)
		appCtx.onClose(client.Close)
		return appCtx, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

// Close releases backend connections.
func (a *AppContext) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *AppContext) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// levelOf reports the most verbose level logger has enabled.
func levelOf(ctx context.Context, logger *slog.Logger) slog.Level {
	for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if logger.Enabled(ctx, lvl) {
			return lvl
		}
	}
	return slog.LevelError
}
