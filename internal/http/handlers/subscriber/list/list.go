// Package list реализует HTTP-обработчик списка абонентов с поиском,
// фильтрами по тарифу и статусу, сортировкой и постраничным выводом.
package list

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-subscribers/internal/http/response"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/view"
)

// Handler обрабатывает запросы на получение списка.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

// Service описывает построение страницы списка.
type Service interface {
	View(q models.ViewQuery, asOf time.Time) (view.Result, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Список абонентов
// @Description Поиск по имени, телефону и e-mail, фильтры по тарифу и статусу, сортировка и страницы.
// @Tags Subscribers
// @Produce  json
// @Param search query string false "Строка поиска"
// @Param type query string false "Тариф"
// @Param status query string false "Статус: active, expiring, expired, unknown"
// @Param sort query string false "Поле сортировки: name, phone, subscriptionType, startDate, status"
// @Param dir query string false "Направление: asc или desc"
// @Param page query int false "Номер страницы, с 1"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} response.Response "Страница списка"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 422 {object} response.Response "Страница вне диапазона"
// @Router /subscribers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q, err := parseQuery(r.URL.Query())
	if err != nil {
		log.Info("invalid list query", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	res, err := h.service.View(q, h.now())
	if errors.Is(err, view.ErrPageOutOfRange) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ErrorWithData("page out of range", map[string]any{
			"total_pages": res.TotalPages,
			"total_count": res.TotalCount,
		}))
		return
	}
	if err != nil {
		log.Error("failed to build list", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list"))
		return
	}

	log.Debug("list built", slog.Int("count", len(res.Items)), slog.Int("total", res.TotalCount))
	render.JSON(w, r, response.StatusOKWithData(res))
}

func parseQuery(v url.Values) (models.ViewQuery, error) {
	q := models.DefaultViewQuery()
	q.PageSize = 0
	q.Search = v.Get("search")
	q.Type = v.Get("type")

	if s := v.Get("status"); s != "" {
		status, ok := models.ParseStatus(s)
		if !ok {
			return q, errors.New("invalid status")
		}
		q.Status = status
	}
	if s := v.Get("sort"); s != "" {
		if !models.ValidSortField(s) {
			return q, errors.New("invalid sort field")
		}
		q.SortField = s
	}
	if s := v.Get("dir"); s != "" {
		if s != models.SortAsc && s != models.SortDesc {
			return q, errors.New("invalid sort direction")
		}
		q.SortDir = s
	}
	if s := v.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New("invalid page")
		}
		q.Page = page
	}
	if s := v.Get("page_size"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil || size <= 0 {
			return q, errors.New("invalid page_size")
		}
		q.PageSize = size
	}
	return q, nil
}
