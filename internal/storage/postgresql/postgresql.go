// Package postgresql хранит снимок коллекции абонентов, учёт изменений и настройки
// в PostgreSQL. Схема создаётся миграциями из каталога migrations.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// ErrSchemaMissing миграции ещё не применены.
var ErrSchemaMissing = errors.New("required table subscribers is missing")

// Storage хранилище на PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает соединение и проверяет его.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// CheckReady проверяет, что миграции применены и таблица subscribers существует.
func (s *Storage) CheckReady(ctx context.Context) error {
	const op = "storage.postgresql.CheckReady"

	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_name = 'subscribers'
	)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, ErrSchemaMissing)
	}
	return nil
}

// LoadSnapshot читает снимок. Если снимок ещё не сохранялся, второе значение false.
func (s *Storage) LoadSnapshot(ctx context.Context) (models.Snapshot, bool, error) {
	const op = "storage.postgresql.LoadSnapshot"
	select {
	case <-ctx.Done():
		return models.Snapshot{}, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		snap       models.Snapshot
		lastExport sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx,
		`SELECT version, saved_at, last_export_time, changes_since_export FROM app_state WHERE id = 1`).
		Scan(&snap.Version, &snap.Timestamp, &lastExport, &snap.ChangesSinceExport)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, false, nil
	}
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("%s: %w", op, err)
	}
	snap.Timestamp = snap.Timestamp.UTC()
	snap.LastExportTime = fromNullTime(lastExport)

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, phone, email, address, subscription_type, start_date,
		       services, amount, payment_method, notes, created_at, updated_at
		FROM subscribers ORDER BY position`)
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	snap.Subscribers = []models.Subscriber{}
	for rows.Next() {
		var (
			sub                  models.Subscriber
			services             []byte
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Phone, &sub.Email, &sub.Address,
			&sub.SubscriptionType, &sub.StartDate, &services, &sub.Amount, &sub.PaymentMethod,
			&sub.Notes, &createdAt, &updatedAt); err != nil {
			return models.Snapshot{}, false, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(services, &sub.Services); err != nil {
			return models.Snapshot{}, false, fmt.Errorf("%s: services of %d: %w", op, sub.ID, err)
		}
		if sub.Services == nil {
			sub.Services = []string{}
		}
		if createdAt.Valid {
			sub.CreatedAt = createdAt.Time.UTC()
		}
		if updatedAt.Valid {
			sub.UpdatedAt = updatedAt.Time.UTC()
		}
		snap.Subscribers = append(snap.Subscribers, sub)
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return snap, true, nil
}

// SaveSnapshot заменяет сохранённый снимок целиком в одной транзакции.
func (s *Storage) SaveSnapshot(ctx context.Context, snap models.Snapshot) (err error) {
	const op = "storage.postgresql.SaveSnapshot"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM subscribers`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subscribers (id, position, name, phone, email, address, subscription_type,
		                         start_date, services, amount, payment_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11, $12, $13, $14)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	for i, sub := range snap.Subscribers {
		services := sub.Services
		if services == nil {
			services = []string{}
		}
		raw, mErr := json.Marshal(services)
		if mErr != nil {
			err = mErr
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, err = stmt.ExecContext(ctx, sub.ID, i, sub.Name, sub.Phone, sub.Email, sub.Address,
			sub.SubscriptionType, sub.StartDate, string(raw), sub.Amount, sub.PaymentMethod, sub.Notes,
			toNullTime(sub.CreatedAt), toNullTime(sub.UpdatedAt)); err != nil {
			return fmt.Errorf("%s: subscriber %d: %w", op, sub.ID, err)
		}
	}

	if err = upsertState(ctx, tx, snap.Version, snap.Timestamp, snap.ExportState()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveExportState обновляет только учёт изменений.
func (s *Storage) SaveExportState(ctx context.Context, state models.ExportState) error {
	const op = "storage.postgresql.SaveExportState"

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO app_state (id, version, saved_at, last_export_time, changes_since_export)
		VALUES (1, '', $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET last_export_time = EXCLUDED.last_export_time,
		    changes_since_export = EXCLUDED.changes_since_export`,
		time.Now().UTC(), toNullTimePtr(state.LastExportTime), state.ChangesSinceExport)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LoadSettings читает настройки поверх значений по умолчанию.
func (s *Storage) LoadSettings(ctx context.Context) (models.Settings, bool, error) {
	const op = "storage.postgresql.LoadSettings"

	var payload []byte
	err := s.DB.QueryRowContext(ctx, `SELECT payload FROM settings WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), false, nil
	}
	if err != nil {
		return models.DefaultSettings(), false, fmt.Errorf("%s: %w", op, err)
	}

	settings := models.DefaultSettings()
	if err := json.Unmarshal(payload, &settings); err != nil {
		return models.DefaultSettings(), false, fmt.Errorf("%s: %w", op, err)
	}
	return settings, true, nil
}

// SaveSettings записывает настройки.
func (s *Storage) SaveSettings(ctx context.Context, settings models.Settings) error {
	const op = "storage.postgresql.SaveSettings"

	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO settings (id, payload) VALUES (1, $1::jsonb)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`, string(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func upsertState(ctx context.Context, tx *sql.Tx, version string, savedAt time.Time, state models.ExportState) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO app_state (id, version, saved_at, last_export_time, changes_since_export)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET version = EXCLUDED.version,
		    saved_at = EXCLUDED.saved_at,
		    last_export_time = EXCLUDED.last_export_time,
		    changes_since_export = EXCLUDED.changes_since_export`,
		version, savedAt.UTC(), toNullTimePtr(state.LastExportTime), state.ChangesSinceExport)
	return err
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func toNullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return toNullTime(*t)
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
