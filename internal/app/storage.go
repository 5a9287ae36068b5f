package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/and161185/school-portal/internal/config"
	"github.com/and161185/school-portal/internal/migrate"
	"github.com/and161185/school-portal/internal/storage"
	"github.com/and161185/school-portal/internal/storage/postgres"
)

// OpenStorage builds the configured backend, sealed when a key is set.
// On success the returned func releases connections and is never nil.
func OpenStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (storage.Storage, func(), error) {
	var st storage.Storage
	closeFn := func() {}
	switch cfg.Backend {
	case "memory":
		st = storage.NewMemory()
	case "", "file":
		path := cfg.Path
		if path == "" {
			path = storage.DefaultPath()
		}
		st = storage.NewFile(path)
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		st = storage.NewRedis(rdb, cfg.Namespace)
		closeFn = func() { _ = rdb.Close() }
	case "postgres":
		if err := migrate.Up(ctx, cfg.PostgresDSN, log); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		st = postgres.NewKV(db, cfg.Namespace)
		closeFn = db.Close
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if cfg.SealKey != "" {
		sealed, err := storage.NewSealed(st, []byte(cfg.SealKey))
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		st = sealed
	}
	log.Debug("storage ready", zap.String("backend", cfg.Backend), zap.Bool("sealed", cfg.SealKey != ""))
	return st, closeFn, nil
}
