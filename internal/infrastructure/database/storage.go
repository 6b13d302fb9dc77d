package database

import (
	"context"
	"fmt"

	"github.com/taskflow/core/internal/adapters/blob"
	"github.com/taskflow/core/internal/infrastructure/config"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// OpenBlobStore opens the blob store selected by storage.driver
func OpenBlobStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.BlobStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return blob.NewOSFileStore(cfg.Storage.Dir)

	case config.DriverRedis:
		client, err := NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		return blob.NewRedisStore(client, cfg.Redis.Prefix), nil

	case config.DriverPostgres:
		db, err := New(cfg.Database)
		if err != nil {
			return nil, err
		}
		// The schema is owned by the migrations; make sure it exists.
		migrator, err := NewMigrator(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		if _, err := migrator.Up(); err != nil {
			db.Close()
			return nil, err
		}
		return blob.NewPostgresStore(db.DB), nil

	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		store, err := blob.NewSQLiteStore(db)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.Close()
			}
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
