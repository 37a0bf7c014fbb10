package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-subscribers/internal/http/response"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Edit(ctx context.Context, id int, in models.SubscriberInput) (models.Subscriber, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Изменить абонента
// @Description Заменяет все поля абонента, кроме id и createdAt.
// @Tags Subscribers
// @Accept  json
// @Produce  json
// @Param id path int true "ID абонента"
// @Param request body models.SubscriberInput true "Данные абонента"
// @Success 200 {object} response.Response "Абонент изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректный id или JSON"
// @Failure 404 {object} response.ErrorResponse "Абонент не найден"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Изменение не сохранено"
// @Router /subscribers/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.update"

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

	var req models.SubscriberInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	sub, err := h.service.Edit(r.Context(), id, req)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verr))
		return
	case errors.Is(err, subscriber.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscriber not found"))
		return
	case errors.Is(err, subscriber.ErrPersistence):
		log.Error("subscriber updated but not persisted", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.ErrorWithData("failed to save data", map[string]any{
			"subscriber": sub,
		}))
		return
	case err != nil:
		log.Error("failed to update subscriber", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update subscriber"))
		return
	}

	log.Info("subscriber updated", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscriber": sub,
	}))
}
