// Package view реализует конвейер отображения списка абонентов:
// фильтрация, устойчивая сортировка и постраничная выдача.
package view

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/lifecycle"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// ErrPageOutOfRange запрошенная страница вне диапазона [1, TotalPages].
var ErrPageOutOfRange = errors.New("page out of range")

// Result одна страница списка.
type Result struct {
	Items      []models.Subscriber `json:"items"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
	TotalCount int                 `json:"totalCount"`
}

// Apply пересчитывает список из полной коллекции.
// Страница не подгоняется под диапазон: при выходе за него возвращается
// ErrPageOutOfRange вместе с корректными TotalPages и TotalCount.
func Apply(subs []models.Subscriber, q models.ViewQuery, asOf time.Time) (Result, error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}

	filtered := Filter(subs, q, asOf)
	Sort(filtered, q.SortField, q.SortDir, asOf)

	res := Result{
		Page:       q.Page,
		PageSize:   pageSize,
		TotalCount: len(filtered),
		TotalPages: TotalPages(len(filtered), pageSize),
		Items:      []models.Subscriber{},
	}
	if q.Page < 1 || q.Page > res.TotalPages {
		return res, ErrPageOutOfRange
	}

	from := (q.Page - 1) * pageSize
	to := min(from+pageSize, len(filtered))
	if from < to {
		res.Items = filtered[from:to]
	}
	return res, nil
}

// TotalPages число страниц, не меньше одной.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	pages := (count + pageSize - 1) / pageSize
	return max(pages, 1)
}

// Filter отбирает записи по строке поиска, тарифу и статусу, сохраняя исходный порядок.
// Строка поиска не обрезается: пробелы в ней тоже должны совпасть.
func Filter(subs []models.Subscriber, q models.ViewQuery, asOf time.Time) []models.Subscriber {
	term := strings.ToLower(q.Search)
	out := make([]models.Subscriber, 0, len(subs))
	for _, s := range subs {
		if term != "" && !matchesSearch(s, term) {
			continue
		}
		if q.Type != "" && s.SubscriptionType != q.Type {
			continue
		}
		if q.Status != "" && lifecycle.Of(s, asOf) != q.Status {
			continue
		}
		out = append(out, s.Clone())
	}
	return out
}

func matchesSearch(s models.Subscriber, term string) bool {
	for _, field := range []string{s.Name, s.Phone, s.Email} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Sort устойчиво сортирует записи на месте. Строки сравниваются без учёта регистра,
// равные элементы сохраняют исходный относительный порядок в обоих направлениях.
func Sort(subs []models.Subscriber, field, dir string, asOf time.Time) {
	if field == "" {
		return
	}
	key := sortKey(field, asOf)
	desc := dir == models.SortDesc
	sort.SliceStable(subs, func(i, j int) bool {
		a, b := key(subs[i]), key(subs[j])
		if desc {
			return a > b
		}
		return a < b
	})
}

func sortKey(field string, asOf time.Time) func(models.Subscriber) string {
	switch field {
	case models.SortPhone:
		return func(s models.Subscriber) string { return strings.ToLower(s.Phone) }
	case models.SortSubscriptionType:
		return func(s models.Subscriber) string { return strings.ToLower(s.SubscriptionType) }
	case models.SortStartDate:
		return func(s models.Subscriber) string { return s.StartDate }
	case models.SortStatus:
		return func(s models.Subscriber) string { return string(lifecycle.Of(s, asOf)) }
	default:
		return func(s models.Subscriber) string { return strings.ToLower(s.Name) }
	}
}
