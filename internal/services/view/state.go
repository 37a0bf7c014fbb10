package view

import (
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// State состояние списка, которым владеет вызывающая сторона.
// Хранит параметры отображения и последний вычисленный результат.
type State struct {
	query  models.ViewQuery
	result Result
}

// NewState создаёт состояние по умолчанию с заданным размером страницы.
func NewState(pageSize int) *State {
	q := models.DefaultViewQuery()
	if pageSize > 0 {
		q.PageSize = pageSize
	}
	return &State{query: q}
}

// Query возвращает текущие параметры.
func (s *State) Query() models.ViewQuery { return s.query }

// Result возвращает последний вычисленный результат.
func (s *State) Result() Result { return s.result }

// SetFilter меняет фильтры, пересчитывает список и возвращается на первую страницу.
func (s *State) SetFilter(subs []models.Subscriber, search, planType string, status models.Status, asOf time.Time) Result {
	s.query.Search = search
	s.query.Type = planType
	s.query.Status = status
	s.query.Page = 1
	s.recompute(subs, asOf)
	return s.result
}

// SortBy выбирает поле сортировки. Повторный выбор того же поля меняет направление,
// новое поле сортируется по возрастанию. Текущая страница сохраняется.
func (s *State) SortBy(subs []models.Subscriber, field string, asOf time.Time) Result {
	if field == s.query.SortField {
		if s.query.SortDir == models.SortAsc {
			s.query.SortDir = models.SortDesc
		} else {
			s.query.SortDir = models.SortAsc
		}
	} else {
		s.query.SortField = field
		s.query.SortDir = models.SortAsc
	}
	s.recompute(subs, asOf)
	return s.result
}

// GoToPage переходит на страницу n. Вне диапазона ничего не меняет и возвращает false.
func (s *State) GoToPage(subs []models.Subscriber, n int, asOf time.Time) (Result, bool) {
	total := TotalPages(len(Filter(subs, s.query, asOf)), s.query.PageSize)
	if n < 1 || n > total {
		return s.result, false
	}
	s.query.Page = n
	s.recompute(subs, asOf)
	return s.result, true
}

// Refresh пересчитывает список после изменения коллекции. Страница сохраняется,
// а если она стала недействительной, выбирается последняя существующая.
func (s *State) Refresh(subs []models.Subscriber, asOf time.Time) Result {
	s.recompute(subs, asOf)
	return s.result
}

func (s *State) recompute(subs []models.Subscriber, asOf time.Time) {
	res, err := Apply(subs, s.query, asOf)
	if err != nil {
		s.query.Page = min(max(s.query.Page, 1), res.TotalPages)
		res, _ = Apply(subs, s.query, asOf)
	}
	s.result = res
}
