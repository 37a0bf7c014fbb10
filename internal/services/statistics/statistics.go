// Package statistics строит сводную статистику по коллекции абонентов
// для главной панели и отчётов.
package statistics

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/lifecycle"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// RecentLimit сколько последних абонентов показывает главная панель.
const RecentLimit = 5

// Aggregate считает статистику за один проход по коллекции.
// Статус каждого абонента вычисляется на момент asOf.
// Для пустой коллекции все счётчики нулевые, а разбивки пустые, но не nil.
func Aggregate(subs []models.Subscriber, asOf time.Time) models.Statistics {
	stats := models.Statistics{
		TotalSubscribers:   len(subs),
		SubscriptionTypes:  make(map[string]int),
		PaymentMethods:     make(map[string]int),
		ServicesPopularity: make(map[string]int),
	}

	for _, s := range subs {
		switch lifecycle.Of(s, asOf) {
		case models.StatusActive:
			stats.ActiveSubscriptions++
		case models.StatusExpiring:
			stats.ExpiringSubscriptions++
		case models.StatusExpired:
			stats.ExpiredSubscriptions++
		}

		stats.TotalRevenue += s.Amount
		stats.SubscriptionTypes[s.SubscriptionType]++
		stats.PaymentMethods[s.PaymentMethod]++
		for _, svc := range s.Services {
			stats.ServicesPopularity[svc]++
		}
	}
	return stats
}

// Recent возвращает до n абонентов, добавленных последними.
// Записи без createdAt упорядочиваются по дате начала.
func Recent(subs []models.Subscriber, n int) []models.Subscriber {
	out := make([]models.Subscriber, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return addedAt(out[i]).After(addedAt(out[j]))
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func addedAt(s models.Subscriber) time.Time {
	if !s.CreatedAt.IsZero() {
		return s.CreatedAt
	}
	t, _ := lifecycle.ParseDate(s.StartDate)
	return t
}

// Renewals возвращает абонентов в статусе "истекает" с датой окончания,
// ближайшие окончания первыми.
func Renewals(subs []models.Subscriber, asOf time.Time) []models.Renewal {
	type item struct {
		r      models.Renewal
		expiry time.Time
	}
	items := make([]item, 0)
	for _, s := range subs {
		if lifecycle.Of(s, asOf) != models.StatusExpiring {
			continue
		}
		expiry, ok := lifecycle.ExpiryDate(s.StartDate, s.SubscriptionType)
		if !ok {
			continue
		}
		items = append(items, item{
			r:      models.Renewal{Subscriber: s.Clone(), ExpiryDate: expiry.Format(models.DateLayout)},
			expiry: expiry,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].expiry.Before(items[j].expiry)
	})

	out := make([]models.Renewal, 0, len(items))
	for _, it := range items {
		out = append(out, it.r)
	}
	return out
}
