package main

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/dayreel/internal/config"
	"github.com/stwalsh4118/dayreel/internal/db"
	"github.com/stwalsh4118/dayreel/internal/logger"
	"github.com/stwalsh4118/dayreel/internal/store"
	"github.com/stwalsh4118/dayreel/internal/store/filestore"
	"github.com/stwalsh4118/dayreel/internal/store/redisstore"
)

// InitStorage opens the configured storage backend, migrating SQL schemas first
func InitStorage(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.Storage.Backend {
	case store.BackendSQLite:
		database, err := db.NewSQLite(cfg.Database.Path, cfg.Database.EnableWAL, cfg.Database.ConnectionTimeout)
		if err != nil {
			return nil, err
		}
		return migrated(database, cfg.Database.MigrationsPath)

	case store.BackendPostgres:
		database, err := db.NewPostgres(cfg.Database.URL, cfg.Database.ConnectionTimeout)
		if err != nil {
			return nil, err
		}
		return migrated(database, cfg.Database.MigrationsPath)

	case store.BackendFile:
		fs, err := filestore.Open(cfg.File.Path)
		if err != nil {
			return nil, err
		}
		logger.Log.Info().Str("path", fs.Path()).Msg("Using JSON file storage")
		return fs, nil

	case store.BackendRedis:
		return redisstore.Open(ctx, redisstore.Options{
			Address:     cfg.Redis.Address,
			Username:    cfg.Redis.Username,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			DialTimeout: cfg.Redis.DialTimeout,
		})

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

func migrated(database *db.DB, migrationsPath string) (store.Backend, error) {
	if err := database.Migrate(migrationsPath); err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Log.Info().
		Str("dialect", database.Dialect).
		Str("migrations", migrationsPath).
		Msg("Database migrations applied")

	return db.NewBackend(database), nil
}
