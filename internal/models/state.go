package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Settings пользовательские настройки напоминаний и выгрузки.
type Settings struct {
	EnableBackupReminders bool     `json:"enableBackupReminders"`
	AutoExportAfterAdd    bool     `json:"autoExportAfterAdd"`
	CompressExports       bool     `json:"compressExports"`
	DefaultFormats        []string `json:"defaultFormats"`
	ReminderInterval      int      `json:"reminderInterval"` // в днях
}

// DefaultSettings возвращает настройки по умолчанию.
func DefaultSettings() Settings {
	return Settings{
		EnableBackupReminders: true,
		AutoExportAfterAdd:    true,
		CompressExports:       false,
		DefaultFormats:        []string{"json", "csv", "markdown"},
		ReminderInterval:      7,
	}
}

// ExportState состояние учёта изменений с момента последней выгрузки.
type ExportState struct {
	LastExportTime     *time.Time `json:"lastExportTime"`
	ChangesSinceExport int        `json:"changesSinceExport"`
}

// Snapshot сохраняемый снимок коллекции абонентов.
type Snapshot struct {
	Subscribers        []Subscriber `json:"subscribers"`
	Timestamp          time.Time    `json:"timestamp"`
	Version            string       `json:"version"`
	LastExportTime     *time.Time   `json:"lastExportTime"`
	ChangesSinceExport int          `json:"changesSinceExport"`
}

// ExportState возвращает часть снимка, относящуюся к учёту изменений.
func (s Snapshot) ExportState() ExportState {
	return ExportState{LastExportTime: s.LastExportTime, ChangesSinceExport: s.ChangesSinceExport}
}

// Statistics сводная статистика по коллекции абонентов.
type Statistics struct {
	TotalSubscribers      int            `json:"totalSubscribers"`
	ActiveSubscriptions   int            `json:"activeSubscriptions"`
	ExpiringSubscriptions int            `json:"expiringSubscriptions"`
	ExpiredSubscriptions  int            `json:"expiredSubscriptions"`
	TotalRevenue          float64        `json:"totalRevenue"`
	SubscriptionTypes     map[string]int `json:"subscriptionTypes"`
	PaymentMethods        map[string]int `json:"paymentMethods"`
	ServicesPopularity    map[string]int `json:"servicesPopularity"`
}

// Count элемент разбивки статистики.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Ranked возвращает разбивку, упорядоченную по убыванию количества, затем по ключу.
func Ranked(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Renewal абонент, чей срок скоро истекает.
type Renewal struct {
	Subscriber Subscriber `json:"subscriber"`
	ExpiryDate string     `json:"expiryDate"`
}

// Dashboard данные главной панели.
type Dashboard struct {
	Statistics  Statistics   `json:"statistics"`
	Recent      []Subscriber `json:"recent"`
	Renewals    []Renewal    `json:"renewals"`
	ExportState ExportState  `json:"exportState"`
}

// ValidationError ошибка проверки входных данных с сообщениями по полям.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
