package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movieclub/internal/config"
	"github.com/iliyamo/movieclub/internal/database"
	"github.com/iliyamo/movieclub/internal/repository"
)

// openKV builds the review storage backend named by STORAGE_DRIVER.
func openKV(ctx context.Context, cfg config.Config, rdb *redis.Client) (repository.KV, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return repository.NewMemoryKV(), nil
	case config.StorageRedis:
		if rdb == nil {
			return nil, fmt.Errorf("storage driver redis: server at %s unreachable", cfg.Redis.Addr)
		}
		return repository.NewRedisKV(rdb, cfg.Redis.KeyPrefix), nil
	case config.StorageMySQL, config.StoragePostgres:
		db, err := database.Open(cfg.StorageDriver, sqlDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.StorageDriver, err)
		}
		kv := repository.NewSQLKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = kv.Close()
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func sqlDSN(cfg config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	if cfg.StorageDriver == config.StoragePostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	return database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
