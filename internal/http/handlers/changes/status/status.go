// Package status реализует HTTP-обработчик состояния учёта изменений:
// число изменений с последней выгрузки, время выгрузки и сообщение для пользователя.
package status

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-subscribers/internal/http/response"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Changes() subscriber.ChangeStatus
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Изменения с последней выгрузки
// @Tags Changes
// @Produce  json
// @Success 200 {object} response.Response "Состояние учёта изменений"
// @Router /changes [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(h.service.Changes()))
}
