// Package lifecycle вычисляет жизненный цикл абонемента: срок действия тарифа,
// число прошедших дней, производный статус и дату окончания.
// Все функции чистые и не зависят от текущего времени: момент оценки передаётся явно.
package lifecycle

import (
	"strings"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// DefaultDuration срок для неизвестного тарифа, в днях.
const DefaultDuration = 30

// expiringWindow последние дни срока, в которые абонемент считается истекающим.
const expiringWindow = 30

var durations = map[string]int{
	models.PlanMonthly:    30,
	models.PlanQuarterly:  90,
	models.PlanHalfYearly: 180,
	models.PlanYearly:     365,
}

// Duration возвращает срок тарифа в днях.
func Duration(plan string) int {
	if d, ok := durations[plan]; ok {
		return d
	}
	return DefaultDuration
}

// ParseDate разбирает дату начала абонемента. Принимает YYYY-MM-DD
// и RFC 3339 (берётся календарная дата). Второе значение false для пустой
// или некорректной строки.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civil(t), true
	}
	return time.Time{}, false
}

// civil приводит момент к полуночи его календарной даты в UTC,
// чтобы разница дат всегда была кратна 24 часам.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ElapsedDays возвращает число дней от start до asOf, округлённое вверх.
// Сравниваются календарные даты, поэтому в день начала результат равен 0.
func ElapsedDays(start, asOf time.Time) int {
	diff := civil(asOf).Sub(civil(start))
	return int(diff / (24 * time.Hour))
}

// Status вычисляет статус абонемента на момент asOf.
//
// Для месячного тарифа окно "истекает" совпадает почти со всем сроком:
// активен только день начала (elapsed == 0), это поведение сохраняется намеренно.
func Status(startDate, plan string, asOf time.Time) models.Status {
	start, ok := ParseDate(startDate)
	if !ok {
		return models.StatusUnknown
	}
	elapsed := ElapsedDays(start, asOf)
	duration := Duration(plan)

	switch {
	case elapsed < 0:
		return models.StatusActive
	case elapsed > duration:
		return models.StatusExpired
	case elapsed > duration-expiringWindow:
		return models.StatusExpiring
	default:
		return models.StatusActive
	}
}

// ExpiryDate возвращает дату окончания: начало плюс срок тарифа.
// Второе значение false, если дата начала отсутствует или некорректна.
func ExpiryDate(startDate, plan string) (time.Time, bool) {
	start, ok := ParseDate(startDate)
	if !ok {
		return time.Time{}, false
	}
	return start.AddDate(0, 0, Duration(plan)), true
}

// Of вычисляет статус записи абонента.
func Of(s models.Subscriber, asOf time.Time) models.Status {
	return Status(s.StartDate, s.SubscriptionType, asOf)
}
