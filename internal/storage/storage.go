// Package storage выбирает хранилище по настройке storage_driver.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/config"
	"github.com/magabrotheeeer/salon-subscribers/internal/migrations"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/storage/kv"
	"github.com/magabrotheeeer/salon-subscribers/internal/storage/memory"
	"github.com/magabrotheeeer/salon-subscribers/internal/storage/postgresql"
)

// Store общий набор операций всех хранилищ.
type Store interface {
	LoadSnapshot(ctx context.Context) (models.Snapshot, bool, error)
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error
	SaveExportState(ctx context.Context, state models.ExportState) error
	LoadSettings(ctx context.Context) (models.Settings, bool, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
	Ping(ctx context.Context) error
	Close() error
}

// Options параметры открытия хранилища.
type Options struct {
	// MigrationsPath каталог миграций PostgreSQL. Пустое значение означает,
	// что миграции применяет другой процесс и нужно дождаться готовности схемы.
	MigrationsPath string
	ReadyRetries   int
	ReadyDelay     time.Duration
}

// Open открывает хранилище, выбранное в cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger, opts Options) (Store, error) {
	const op = "storage.Open"

	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data will be lost on restart")
		return memory.New(), nil

	case config.StorageRedis:
		store, err := kv.New(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return store, nil

	case config.StoragePostgres:
		db, err := postgresql.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if opts.MigrationsPath != "" {
			err = migrations.Run(db.DB, opts.MigrationsPath)
		} else {
			err = waitForSchema(ctx, db, opts, log)
		}
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return db, nil
	}

	return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.StorageDriver)
}

func waitForSchema(ctx context.Context, db *postgresql.Storage, opts Options, log *slog.Logger) error {
	retries := max(opts.ReadyRetries, 1)
	var err error
	for attempt := range retries {
		if err = db.CheckReady(ctx); err == nil {
			return nil
		}
		log.Info("database not ready yet", slog.Int("attempt", attempt+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.ReadyDelay):
		}
	}
	return fmt.Errorf("database not ready after %d retries: %w", retries, err)
}
