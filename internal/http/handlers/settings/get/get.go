// Package get реализует HTTP-обработчик чтения настроек.
package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-subscribers/internal/http/response"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Settings() models.Settings
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущие настройки
// @Tags Settings
// @Produce  json
// @Success 200 {object} response.Response "Настройки"
// @Router /settings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(h.service.Settings()))
}
