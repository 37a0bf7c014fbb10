// Package metrics содержит метрики Prometheus сервиса абонентов.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций для метки result.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics набор метрик сервиса. Нулевой указатель допустим: методы ничего не делают.
type Metrics struct {
	mutations    *prometheus.CounterVec
	exports      *prometheus.CounterVec
	changes      prometheus.Gauge
	subscribers  prometheus.Gauge
	reminders    *prometheus.CounterVec
	notification *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	defaultSet  *Metrics
)

// Default возвращает метрики, зарегистрированные в prometheus.DefaultRegisterer.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultSet = New(prometheus.DefaultRegisterer)
	})
	return defaultSet
}

// New создаёт и регистрирует метрики в переданном реестре.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_subscriber_mutations_total",
			Help: "Subscriber add, edit and delete operations by result.",
		}, []string{"operation", "result"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_exports_total",
			Help: "Generated export files by format and result.",
		}, []string{"format", "result"}),
		changes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "salon_changes_since_export",
			Help: "Mutations recorded since the last full export.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "salon_subscribers",
			Help: "Subscribers currently in the collection.",
		}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_reminders_published_total",
			Help: "Reminder messages published to the broker by kind.",
		}, []string{"kind", "result"}),
		notification: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_notifications_sent_total",
			Help: "E-mail notifications delivered by kind and result.",
		}, []string{"kind", "result"}),
	}

	registerer.MustRegister(m.mutations, m.exports, m.changes, m.subscribers, m.reminders, m.notification)
	return m
}

// ObserveMutation учитывает изменение коллекции.
func (m *Metrics) ObserveMutation(operation string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, result(err)).Inc()
}

// ObserveExport учитывает сформированный файл выгрузки.
func (m *Metrics) ObserveExport(format string, err error) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format, result(err)).Inc()
}

// SetChanges выставляет текущее значение счётчика изменений.
func (m *Metrics) SetChanges(n int) {
	if m == nil {
		return
	}
	m.changes.Set(float64(n))
}

// SetSubscribers выставляет размер коллекции.
func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}

// ObserveReminder учитывает опубликованное напоминание.
func (m *Metrics) ObserveReminder(kind string, err error) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(kind, result(err)).Inc()
}

// ObserveNotification учитывает отправленное письмо.
func (m *Metrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	m.notification.WithLabelValues(kind, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
