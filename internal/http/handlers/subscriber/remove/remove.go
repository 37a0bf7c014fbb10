// Package remove реализует HTTP-обработчик удаления абонента.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-subscribers/internal/http/response"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
)

// Handler обрабатывает запросы на удаление абонента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику удаления.
type Service interface {
	Delete(ctx context.Context, id int) error
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить абонента
// @Tags Subscribers
// @Produce  json
// @Param id path int true "ID абонента"
// @Success 200 {object} response.Response "Абонент удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 404 {object} response.ErrorResponse "Абонент не найден"
// @Failure 503 {object} response.ErrorResponse "Удаление не сохранено"
// @Router /subscribers/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	err = h.service.Delete(r.Context(), id)
	switch {
	case errors.Is(err, subscriber.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscriber not found"))
		return
	case errors.Is(err, subscriber.ErrPersistence):
		log.Error("subscriber deleted but not persisted", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("failed to save data"))
		return
	case err != nil:
		log.Error("failed to delete subscriber", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete subscriber"))
		return
	}

	log.Info("subscriber deleted", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}
