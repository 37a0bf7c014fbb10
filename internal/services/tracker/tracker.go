// Package tracker учитывает изменения коллекции с момента последней выгрузки.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// ErrPersist состояние изменилось в памяти, но не сохранилось.
var ErrPersist = errors.New("failed to persist export state")

// Store сохраняет состояние учёта изменений.
type Store interface {
	SaveExportState(ctx context.Context, state models.ExportState) error
}

// Tracker счётчик изменений с сохранением после каждого вызова.
type Tracker struct {
	mu    sync.Mutex
	state models.ExportState
	store Store
}

// New создаёт Tracker с начальным состоянием, прочитанным из хранилища.
func New(store Store, initial models.ExportState) *Tracker {
	if initial.ChangesSinceExport < 0 {
		initial.ChangesSinceExport = 0
	}
	return &Tracker{state: initial, store: store}
}

// RecordChange увеличивает счётчик на единицу и сохраняет состояние.
// Возвращает новое значение счётчика даже при ошибке сохранения.
func (t *Tracker) RecordChange(ctx context.Context) (int, error) {
	const op = "tracker.RecordChange"

	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.ChangesSinceExport++
	if err := t.persist(ctx); err != nil {
		return t.state.ChangesSinceExport, fmt.Errorf("%s: %w", op, err)
	}
	return t.state.ChangesSinceExport, nil
}

// RecordExport запоминает время выгрузки и вычитает из счётчика exported,
// то есть значение счётчика на момент снятия выгруженной копии.
// Изменения, сделанные пока шла выгрузка, остаются учтёнными.
func (t *Tracker) RecordExport(ctx context.Context, at time.Time, exported int) error {
	const op = "tracker.RecordExport"

	t.mu.Lock()
	defer t.mu.Unlock()

	at = at.UTC()
	t.state.ChangesSinceExport = max(0, t.state.ChangesSinceExport-max(exported, 0))
	t.state.LastExportTime = &at
	if err := t.persist(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ChangesSince число изменений после последней выгрузки.
func (t *Tracker) ChangesSince() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.ChangesSinceExport
}

// LastExport время последней полной выгрузки или nil.
func (t *Tracker) LastExport() *time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyTime(t.state.LastExportTime)
}

// State копия текущего состояния.
func (t *Tracker) State() models.ExportState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.ExportState{
		LastExportTime:     copyTime(t.state.LastExportTime),
		ChangesSinceExport: t.state.ChangesSinceExport,
	}
}

// Message человекочитаемое описание состояния счётчика.
func Message(changes int) string {
	if changes == 0 {
		return "No changes detected since last export."
	}
	return fmt.Sprintf("%d changes detected since last export.", changes)
}

func (t *Tracker) persist(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	state := models.ExportState{
		LastExportTime:     copyTime(t.state.LastExportTime),
		ChangesSinceExport: t.state.ChangesSinceExport,
	}
	if err := t.store.SaveExportState(ctx, state); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
