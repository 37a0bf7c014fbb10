// Package update реализует HTTP-обработчик сохранения настроек.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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
	UpdateSettings(ctx context.Context, settings models.Settings) (models.Settings, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сохранить настройки
// @Description Полностью заменяет настройки. reminderInterval не меньше 1, defaultFormats из json, csv, markdown, html.
// @Tags Settings
// @Accept  json
// @Produce  json
// @Param request body models.Settings true "Настройки"
// @Success 200 {object} response.Response "Настройки сохранены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Недопустимые значения"
// @Failure 503 {object} response.ErrorResponse "Настройки не сохранены"
// @Router /settings [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), req)
	switch {
	case errors.Is(err, subscriber.ErrInvalidSettings):
		log.Info("invalid settings", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, subscriber.ErrPersistence):
		log.Error("settings applied but not persisted", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("failed to save settings"))
		return
	case err != nil:
		log.Error("failed to update settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update settings"))
		return
	}

	log.Info("settings updated")
	render.JSON(w, r, response.StatusOKWithData(settings))
}
