// Package kv хранит снимок коллекции, учёт изменений и настройки в Redis
// в виде JSON-значений под фиксированными ключами.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/salon-subscribers/internal/config"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// Суффиксы ключей. Полный ключ имеет вид <prefix>_<suffix>.
const (
	keySubscribers = "subscribers_data"
	keyExportState = "export_state"
	keySettings    = "settings"
)

// Store хранилище на Redis.
type Store struct {
	db     *redis.Client
	prefix string
}

// New подключается к Redis и проверяет соединение.
func New(ctx context.Context, cfg config.RedisConnection) (*Store, error) {
	const op = "storage.kv.New"

	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewWithClient(db, cfg.KeyPrefix), nil
}

// NewWithClient оборачивает готовый клиент.
func NewWithClient(db *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "salon"
	}
	return &Store{db: db, prefix: prefix}
}

// Close закрывает соединение.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping проверяет доступность Redis.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx).Err()
}

func (s *Store) key(suffix string) string {
	return s.prefix + "_" + suffix
}

// LoadSnapshot читает снимок. Если ключа нет, второе значение false.
// Отдельно сохранённое состояние учёта изменений имеет приоритет над снимком.
func (s *Store) LoadSnapshot(ctx context.Context) (models.Snapshot, bool, error) {
	const op = "storage.kv.LoadSnapshot"

	var snap models.Snapshot
	found, err := s.get(ctx, s.key(keySubscribers), &snap)
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return models.Snapshot{}, false, nil
	}

	var state models.ExportState
	ok, err := s.get(ctx, s.key(keyExportState), &state)
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		snap.LastExportTime = state.LastExportTime
		snap.ChangesSinceExport = state.ChangesSinceExport
	}
	if snap.Subscribers == nil {
		snap.Subscribers = []models.Subscriber{}
	}
	return snap, true, nil
}

// SaveSnapshot атомарно записывает снимок и состояние учёта изменений.
func (s *Store) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	const op = "storage.kv.SaveSnapshot"

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	state, err := json.Marshal(snap.ExportState())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	pipe := s.db.TxPipeline()
	pipe.Set(ctx, s.key(keySubscribers), data, 0)
	pipe.Set(ctx, s.key(keyExportState), state, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveExportState записывает только состояние учёта изменений.
func (s *Store) SaveExportState(ctx context.Context, state models.ExportState) error {
	const op = "storage.kv.SaveExportState"

	if err := s.set(ctx, s.key(keyExportState), state); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LoadSettings читает настройки. Если ключа нет, второе значение false.
func (s *Store) LoadSettings(ctx context.Context) (models.Settings, bool, error) {
	const op = "storage.kv.LoadSettings"

	settings := models.DefaultSettings()
	found, err := s.get(ctx, s.key(keySettings), &settings)
	if err != nil {
		return models.DefaultSettings(), false, fmt.Errorf("%s: %w", op, err)
	}
	return settings, found, nil
}

// SaveSettings записывает настройки.
func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	const op = "storage.kv.SaveSettings"

	if err := s.set(ctx, s.key(keySettings), settings); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, out any) (bool, error) {
	val, err := s.db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Set(ctx, key, data, 0).Err()
}
