// Package reminder проверяет, пора ли напомнить о резервной выгрузке
// и о скором окончании абонементов, и публикует напоминания в очередь.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/rabbitmq"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/statistics"
)

// Виды напоминаний, они же метки метрик.
const (
	KindBackup  = "backup"
	KindRenewal = "renewal"
)

// Source хранилище, из которого планировщик читает состояние.
type Source interface {
	LoadSnapshot(ctx context.Context) (models.Snapshot, bool, error)
	LoadSettings(ctx context.Context) (models.Settings, bool, error)
}

// Publisher публикует сообщение с ключом маршрутизации.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Metrics учёт опубликованных напоминаний.
type Metrics interface {
	ObserveReminder(kind string, err error)
}

// Result итог одной проверки.
type Result struct {
	Backup   bool
	Renewals int
}

// Scheduler периодически проверяет состояние хранилища.
type Scheduler struct {
	source    Source
	publisher Publisher
	metrics   Metrics
	log       *slog.Logger
	now       func() time.Time
}

// New создаёт Scheduler. metrics может быть nil.
func New(source Source, publisher Publisher, metrics Metrics, log *slog.Logger) *Scheduler {
	return &Scheduler{
		source:    source,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// BackupDue сообщает, пора ли напомнить о выгрузке: напоминания включены,
// есть невыгруженные изменения и с последней выгрузки прошло не меньше
// ReminderInterval дней (или выгрузки ещё не было).
func BackupDue(settings models.Settings, state models.ExportState, now time.Time) bool {
	if !settings.EnableBackupReminders || state.ChangesSinceExport <= 0 {
		return false
	}
	if state.LastExportTime == nil {
		return true
	}
	interval := time.Duration(settings.ReminderInterval) * 24 * time.Hour
	return now.Sub(*state.LastExportTime) >= interval
}

// RenewalReminders напоминания для абонентов в статусе "истекает", у которых указан e-mail.
func RenewalReminders(subs []models.Subscriber, now time.Time) []models.RenewalReminder {
	renewals := statistics.Renewals(subs, now)
	out := make([]models.RenewalReminder, 0, len(renewals))
	for _, r := range renewals {
		if r.Subscriber.Email == "" {
			continue
		}
		out = append(out, models.RenewalReminder{
			SubscriberID:     r.Subscriber.ID,
			Name:             r.Subscriber.Name,
			Email:            r.Subscriber.Email,
			Phone:            r.Subscriber.Phone,
			SubscriptionType: r.Subscriber.SubscriptionType,
			ExpiryDate:       r.ExpiryDate,
		})
	}
	return out
}

// Check выполняет одну проверку и публикует положенные напоминания.
// Ошибки публикации отдельных сообщений не прерывают проверку и возвращаются вместе.
func (s *Scheduler) Check(ctx context.Context) (Result, error) {
	const op = "reminder.Check"

	snap, _, err := s.source.LoadSnapshot(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	settings, _, err := s.source.LoadSettings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	var res Result
	var errs []error

	state := snap.ExportState()
	if BackupDue(settings, state, now) {
		err := s.publish(rabbitmq.RoutingBackup, KindBackup, models.BackupReminder{
			ChangesSinceExport: state.ChangesSinceExport,
			LastExportTime:     state.LastExportTime,
			ReminderInterval:   settings.ReminderInterval,
			CreatedAt:          now.UTC(),
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			res.Backup = true
		}
	}

	for _, r := range RenewalReminders(snap.Subscribers, now) {
		if err := s.publish(rabbitmq.RoutingRenewal, KindRenewal, r); err != nil {
			errs = append(errs, err)
			continue
		}
		res.Renewals++
	}

	s.log.Info("reminder check finished",
		slog.Bool("backup", res.Backup),
		slog.Int("renewals", res.Renewals),
		slog.Int("failed", len(errs)),
	)
	if err := errors.Join(errs...); err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Run выполняет проверку сразу и затем каждые interval до отмены ctx.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	s.runCheck(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.runCheck(ctx)
		}
	}
}

func (s *Scheduler) runCheck(ctx context.Context) {
	if _, err := s.Check(ctx); err != nil {
		s.log.Error("reminder check failed", sl.Err(err))
	}
}

func (s *Scheduler) publish(routingKey, kind string, msg any) error {
	err := s.publisher.Publish(routingKey, msg)
	if s.metrics != nil {
		s.metrics.ObserveReminder(kind, err)
	}
	if err != nil {
		s.log.Error("failed to publish reminder", slog.String("kind", kind), sl.Err(err))
	}
	return err
}
