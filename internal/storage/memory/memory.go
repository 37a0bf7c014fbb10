// Package memory хранилище в памяти процесса для локального запуска и тестов.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// Storage хранит копии снимка и настроек.
type Storage struct {
	mu       sync.Mutex
	snapshot *models.Snapshot
	settings *models.Settings
	err      error
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{}
}

// FailWith заставляет все операции записи возвращать err. nil снимает сбой.
func (s *Storage) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// LoadSnapshot возвращает копию сохранённого снимка.
func (s *Storage) LoadSnapshot(_ context.Context) (models.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return models.Snapshot{}, false, nil
	}
	return copySnapshot(*s.snapshot), true, nil
}

// SaveSnapshot сохраняет копию снимка.
func (s *Storage) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	c := copySnapshot(snap)
	s.snapshot = &c
	return nil
}

// SaveExportState обновляет учёт изменений в сохранённом снимке.
func (s *Storage) SaveExportState(ctx context.Context, state models.ExportState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if s.snapshot == nil {
		s.snapshot = &models.Snapshot{Subscribers: []models.Subscriber{}}
	}
	s.snapshot.LastExportTime = copyTime(state.LastExportTime)
	s.snapshot.ChangesSinceExport = state.ChangesSinceExport
	return nil
}

// LoadSettings возвращает сохранённые настройки или значения по умолчанию.
func (s *Storage) LoadSettings(_ context.Context) (models.Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return models.DefaultSettings(), false, nil
	}
	out := *s.settings
	out.DefaultFormats = append([]string{}, s.settings.DefaultFormats...)
	return out, true, nil
}

// SaveSettings сохраняет копию настроек.
func (s *Storage) SaveSettings(ctx context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	settings.DefaultFormats = append([]string{}, settings.DefaultFormats...)
	s.settings = &settings
	return nil
}

// Ping всегда успешен.
func (s *Storage) Ping(_ context.Context) error { return nil }

// Close ничего не делает.
func (s *Storage) Close() error { return nil }

func (s *Storage) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.err
}

func copySnapshot(in models.Snapshot) models.Snapshot {
	out := in
	out.Subscribers = make([]models.Subscriber, 0, len(in.Subscribers))
	for _, sub := range in.Subscribers {
		out.Subscribers = append(out.Subscribers, sub.Clone())
	}
	out.LastExportTime = copyTime(in.LastExportTime)
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
