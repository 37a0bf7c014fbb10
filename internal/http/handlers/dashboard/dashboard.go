// Package dashboard реализует HTTP-обработчик главной панели: статистика,
// последние добавленные абоненты, ближайшие продления и учёт изменений.
package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-subscribers/internal/http/response"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

type Service interface {
	Dashboard(asOf time.Time) models.Dashboard
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Главная панель
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} response.Response "Данные панели"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	d := h.service.Dashboard(h.now())
	h.log.Debug("dashboard built",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("total", d.Statistics.TotalSubscribers),
	)
	render.JSON(w, r, response.StatusOKWithData(d))
}
