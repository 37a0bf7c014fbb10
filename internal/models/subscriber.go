// Package models содержит доменные структуры сервиса: абонента салона,
// входные данные формы, производный статус и вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Тарифы абонемента.
const (
	PlanMonthly    = "Monthly"
	PlanQuarterly  = "Quarterly"
	PlanHalfYearly = "Half-yearly"
	PlanYearly     = "Yearly"
)

// Plans возвращает известные тарифы в порядке возрастания срока.
func Plans() []string {
	return []string{PlanMonthly, PlanQuarterly, PlanHalfYearly, PlanYearly}
}

// DateLayout формат даты начала абонемента.
const DateLayout = "2006-01-02"

// Subscriber представляет запись абонента салона.
// Имена JSON-полей совпадают с форматом снимка хранилища и выгрузки,
// поэтому структура сериализуется без потерь в обе стороны.
type Subscriber struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Address          string    `json:"address"`
	SubscriptionType string    `json:"subscriptionType"`
	StartDate        string    `json:"startDate"` // YYYY-MM-DD, может быть пустой
	Services         []string  `json:"services"`
	Amount           float64   `json:"amount"`
	PaymentMethod    string    `json:"paymentMethod"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Clone возвращает глубокую копию записи.
func (s Subscriber) Clone() Subscriber {
	out := s
	out.Services = append([]string{}, s.Services...)
	return out
}

// SubscriberInput используется для приёма данных формы из JSON-запроса,
// прежде чем превратить их в Subscriber.
type SubscriberInput struct {
	Name             string   `json:"name" validate:"required"`
	Phone            string   `json:"phone" validate:"required,phone"`
	Email            string   `json:"email" validate:"omitempty,email"`
	Address          string   `json:"address"`
	SubscriptionType string   `json:"subscriptionType" validate:"required"`
	StartDate        string   `json:"startDate" validate:"required,isodate"`
	Services         []string `json:"services"`
	Amount           Amount   `json:"amount" validate:"gte=0"`
	PaymentMethod    string   `json:"paymentMethod" validate:"required"`
	Notes            string   `json:"notes"`
}

// Normalize обрезает пробелы в строковых полях.
func (in SubscriberInput) Normalize() SubscriberInput {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.Phone = strings.TrimSpace(in.Phone)
	out.Email = strings.TrimSpace(in.Email)
	out.Address = strings.TrimSpace(in.Address)
	out.SubscriptionType = strings.TrimSpace(in.SubscriptionType)
	out.StartDate = strings.TrimSpace(in.StartDate)
	out.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	out.Notes = strings.TrimSpace(in.Notes)
	out.Services = make([]string, 0, len(in.Services))
	for _, svc := range in.Services {
		if svc = strings.TrimSpace(svc); svc != "" {
			out.Services = append(out.Services, svc)
		}
	}
	return out
}

// Amount сумма абонемента с мягким разбором: принимает число, числовую строку,
// пустую строку или null. Всё, что не разбирается как число, становится нулём.
type Amount float64

// UnmarshalJSON реализует json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*a = Amount(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = ParseAmount(s)
		return nil
	}
	*a = 0
	return nil
}

// ParseAmount разбирает строку с суммой, неразборчивое значение даёт 0.
func ParseAmount(s string) Amount {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Amount(f)
}

// Status производный статус абонемента, никогда не хранится.
type Status string

// Возможные статусы.
const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
	StatusUnknown  Status = "unknown"
)

// ParseStatus проверяет строку статуса.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusExpiring, StatusExpired, StatusUnknown:
		return Status(s), true
	}
	return "", false
}
