// Package subscriber содержит бизнес-логику управления абонентами салона:
// коллекция в памяти, проверка входных данных, учёт изменений и сохранение.
//
// Service владеет коллекцией явно. Все изменения выполняются под мьютексом:
// выдача id, добавление и сохранение образуют одну неделимую последовательность.
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/salon-subscribers/internal/export"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/lifecycle"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/statistics"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/tracker"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/view"
)

var (
	// ErrNotFound абонент с таким id отсутствует.
	ErrNotFound = errors.New("subscriber not found")
	// ErrPersistence изменение применено в памяти, но не сохранено.
	ErrPersistence = errors.New("failed to persist data")
	// ErrInvalidSettings настройки не прошли проверку.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Repository хранилище снимка, учёта изменений и настроек.
type Repository interface {
	LoadSnapshot(ctx context.Context) (models.Snapshot, bool, error)
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error
	SaveExportState(ctx context.Context, state models.ExportState) error
	LoadSettings(ctx context.Context) (models.Settings, bool, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
}

// Metrics счётчики операций.
type Metrics interface {
	ObserveMutation(operation string, err error)
	SetChanges(n int)
	SetSubscribers(n int)
}

// Options параметры сервиса.
type Options struct {
	Version        string
	SeedSampleData bool
	PageSize       int
}

// AddResult дополнительная информация о добавлении.
type AddResult struct {
	// BackupSuggested выставляется при включённой настройке autoExportAfterAdd.
	BackupSuggested bool `json:"backupSuggested"`
	Changes         int  `json:"changesSinceExport"`
}

// ChangeStatus состояние учёта изменений с сообщением для пользователя.
type ChangeStatus struct {
	models.ExportState
	Message string `json:"message"`
}

// Service управляет коллекцией абонентов.
type Service struct {
	mu       sync.Mutex
	repo     Repository
	log      *slog.Logger
	metrics  Metrics
	validate *validator.Validate
	opts     Options
	now      func() time.Time

	subs     []models.Subscriber
	settings models.Settings
	tracker  *tracker.Tracker
}

// New создаёт сервис. До вызова Load коллекция пуста.
func New(repo Repository, log *slog.Logger, metrics Metrics, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = models.DefaultPageSize
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		repo:     repo,
		log:      log,
		metrics:  metrics,
		validate: newValidator(),
		opts:     opts,
		now:      time.Now,
		subs:     []models.Subscriber{},
		settings: models.DefaultSettings(),
		tracker:  tracker.New(repo, models.ExportState{}),
	}
}

// Load читает снимок и настройки из хранилища. При пустом хранилище
// и включённом SeedSampleData заполняет коллекцию демонстрационными записями.
func (s *Service) Load(ctx context.Context) error {
	const op = "subscriber.Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, _, err := s.repo.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.settings = settings

	snap, found, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case found:
		s.subs = snap.Subscribers
		if s.subs == nil {
			s.subs = []models.Subscriber{}
		}
		s.tracker = tracker.New(s.repo, snap.ExportState())
		s.log.Info("subscribers loaded", slog.Int("count", len(s.subs)),
			slog.Int("changes_since_export", snap.ChangesSinceExport))
	case s.opts.SeedSampleData:
		s.subs = sampleSubscribers()
		s.tracker = tracker.New(s.repo, models.ExportState{})
		if err := s.persist(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("storage is empty, sample subscribers seeded", slog.Int("count", len(s.subs)))
	default:
		s.subs = []models.Subscriber{}
		s.tracker = tracker.New(s.repo, models.ExportState{})
		s.log.Info("storage is empty, starting with no subscribers")
	}

	s.observeState()
	return nil
}

// Add проверяет данные формы и добавляет абонента.
// При ошибке сохранения запись остаётся в памяти, возвращается ErrPersistence.
func (s *Service) Add(ctx context.Context, in models.SubscriberInput) (models.Subscriber, AddResult, error) {
	const op = "subscriber.Add"

	in = in.Normalize()
	if err := s.validateInput(in); err != nil {
		return models.Subscriber{}, AddResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	sub := build(in)
	sub.ID = s.nextID()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	s.subs = append(s.subs, sub)

	err := s.commit(ctx)
	s.metrics.ObserveMutation("add", err)
	res := AddResult{
		BackupSuggested: s.settings.AutoExportAfterAdd,
		Changes:         s.tracker.ChangesSince(),
	}
	if err != nil {
		s.log.Error("subscriber added but not saved", slog.Int("id", sub.ID), sl.Err(err))
		return sub.Clone(), res, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscriber added", slog.Int("id", sub.ID))
	return sub.Clone(), res, nil
}

// Edit заменяет все поля абонента, кроме id и createdAt, и обновляет updatedAt.
func (s *Service) Edit(ctx context.Context, id int, in models.SubscriberInput) (models.Subscriber, error) {
	const op = "subscriber.Edit"

	in = in.Normalize()
	if err := s.validateInput(in); err != nil {
		return models.Subscriber{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Subscriber{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	updated := build(in)
	updated.ID = id
	updated.CreatedAt = s.subs[idx].CreatedAt
	updated.UpdatedAt = s.now().UTC()
	s.subs[idx] = updated

	err := s.commit(ctx)
	s.metrics.ObserveMutation("edit", err)
	if err != nil {
		s.log.Error("subscriber updated but not saved", slog.Int("id", id), sl.Err(err))
		return updated.Clone(), fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscriber updated", slog.Int("id", id))
	return updated.Clone(), nil
}

// Delete удаляет абонента.
func (s *Service) Delete(ctx context.Context, id int) error {
	const op = "subscriber.Delete"

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	s.subs = slices.Delete(s.subs, idx, idx+1)

	err := s.commit(ctx)
	s.metrics.ObserveMutation("delete", err)
	if err != nil {
		s.log.Error("subscriber deleted but not saved", slog.Int("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscriber deleted", slog.Int("id", id))
	return nil
}

// Get возвращает абонента по id.
func (s *Service) Get(_ context.Context, id int) (models.Subscriber, error) {
	const op = "subscriber.Get"

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Subscriber{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return s.subs[idx].Clone(), nil
}

// Subscribers возвращает копию коллекции в исходном порядке.
func (s *Service) Subscribers() []models.Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copySubs()
}

// Snapshot возвращает копию текущего состояния в формате хранилища.
func (s *Service) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// View применяет фильтры, сортировку и страницу к коллекции на момент asOf.
// Пустой размер страницы заменяется настроенным.
func (s *Service) View(q models.ViewQuery, asOf time.Time) (view.Result, error) {
	if q.PageSize <= 0 {
		q.PageSize = s.opts.PageSize
	}
	return view.Apply(s.Subscribers(), q, asOf)
}

// Dashboard собирает данные главной панели.
func (s *Service) Dashboard(asOf time.Time) models.Dashboard {
	s.mu.Lock()
	subs := s.copySubs()
	state := s.tracker.State()
	s.mu.Unlock()

	return models.Dashboard{
		Statistics:  statistics.Aggregate(subs, asOf),
		Recent:      statistics.Recent(subs, statistics.RecentLimit),
		Renewals:    statistics.Renewals(subs, asOf),
		ExportState: state,
	}
}

// Settings текущие настройки.
func (s *Service) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.settings
	out.DefaultFormats = append([]string{}, s.settings.DefaultFormats...)
	return out
}

// UpdateSettings проверяет и сохраняет настройки.
func (s *Service) UpdateSettings(ctx context.Context, settings models.Settings) (models.Settings, error) {
	const op = "subscriber.UpdateSettings"

	if settings.ReminderInterval < 1 {
		return models.Settings{}, fmt.Errorf("%s: %w: reminderInterval must be at least 1 day", op, ErrInvalidSettings)
	}
	for _, f := range settings.DefaultFormats {
		if _, err := export.ParseFormat(f); err != nil {
			return models.Settings{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidSettings, err)
		}
	}
	if settings.DefaultFormats == nil {
		settings.DefaultFormats = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return settings, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
	s.log.Info("settings updated")
	return settings, nil
}

// Changes состояние учёта изменений.
func (s *Service) Changes() ChangeStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.tracker.State()
	return ChangeStatus{ExportState: state, Message: tracker.Message(state.ChangesSinceExport)}
}

// ChangeLog журнал изменений с последней выгрузки.
func (s *Service) ChangeLog(at time.Time) ([]byte, error) {
	s.mu.Lock()
	changes := s.tracker.ChangesSince()
	s.mu.Unlock()
	return export.ChangeLog(changes, at)
}

// RecordExport фиксирует успешный полный цикл выгрузки снимка,
// в котором было exported изменений.
func (s *Service) RecordExport(ctx context.Context, at time.Time, exported int) error {
	const op = "subscriber.RecordExport"

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.tracker.RecordExport(ctx, at, exported)
	s.observeState()
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
	return nil
}

// commit учитывает изменение и сохраняет снимок. Вызывается под мьютексом.
func (s *Service) commit(ctx context.Context) error {
	_, trackErr := s.tracker.RecordChange(ctx)
	saveErr := s.persist(ctx)
	s.observeState()
	if err := errors.Join(trackErr, saveErr); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	return s.repo.SaveSnapshot(ctx, s.snapshot())
}

func (s *Service) snapshot() models.Snapshot {
	state := s.tracker.State()
	return models.Snapshot{
		Subscribers:        s.copySubs(),
		Timestamp:          s.now().UTC(),
		Version:            s.opts.Version,
		LastExportTime:     state.LastExportTime,
		ChangesSinceExport: state.ChangesSinceExport,
	}
}

func (s *Service) observeState() {
	s.metrics.SetChanges(s.tracker.ChangesSince())
	s.metrics.SetSubscribers(len(s.subs))
}

func (s *Service) copySubs() []models.Subscriber {
	out := make([]models.Subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub.Clone())
	}
	return out
}

// nextID максимальный id плюс один, или 1 для пустой коллекции.
func (s *Service) nextID() int {
	maxID := 0
	for _, sub := range s.subs {
		maxID = max(maxID, sub.ID)
	}
	return maxID + 1
}

func (s *Service) indexOf(id int) int {
	return slices.IndexFunc(s.subs, func(sub models.Subscriber) bool { return sub.ID == id })
}

func build(in models.SubscriberInput) models.Subscriber {
	startDate := in.StartDate
	if t, ok := lifecycle.ParseDate(startDate); ok {
		startDate = t.Format(models.DateLayout)
	}
	return models.Subscriber{
		Name:             in.Name,
		Phone:            in.Phone,
		Email:            in.Email,
		Address:          in.Address,
		SubscriptionType: in.SubscriptionType,
		StartDate:        startDate,
		Services:         append([]string{}, in.Services...),
		Amount:           float64(in.Amount),
		PaymentMethod:    in.PaymentMethod,
		Notes:            in.Notes,
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveMutation(string, error) {}
func (noopMetrics) SetChanges(int)                {}
func (noopMetrics) SetSubscribers(int)            {}
