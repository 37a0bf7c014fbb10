// Package create реализует HTTP-обработчик добавления абонента.
//
// Handler принимает JSON с данными формы, передаёт их сервису и возвращает
// созданную запись вместе с признаком того, что стоит сделать резервную выгрузку.
package create

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

// Handler обрабатывает запросы на добавление абонента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику добавления абонента.
type Service interface {
	Add(ctx context.Context, in models.SubscriberInput) (models.Subscriber, subscriber.AddResult, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Добавить абонента
// @Description Проверяет данные формы и добавляет абонента. Возвращает запись, признак backupSuggested и число изменений с последней выгрузки.
// @Tags Subscribers
// @Accept  json
// @Produce  json
// @Param request body models.SubscriberInput true "Данные абонента"
// @Success 201 {object} response.Response "Абонент добавлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Абонент добавлен, но не сохранён"
// @Router /subscribers [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SubscriberInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	sub, res, err := h.service.Add(r.Context(), req)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verr))
		return
	case errors.Is(err, subscriber.ErrPersistence):
		log.Error("subscriber added but not persisted", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.ErrorWithData("failed to save data", map[string]any{
			"subscriber": sub,
		}))
		return
	case err != nil:
		log.Error("failed to add subscriber", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add subscriber"))
		return
	}

	log.Info("subscriber added", slog.Int("id", sub.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscriber":         sub,
		"backupSuggested":    res.BackupSuggested,
		"changesSinceExport": res.Changes,
	}))
}
