// Package run реализует HTTP-обработчик полного цикла выгрузки:
// JSON, CSV, Markdown и HTML сохраняются в каталог выгрузок,
// после чего счётчик изменений сбрасывается.
package run

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-subscribers/internal/export"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/response"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	exporter Exporter
}

type Service interface {
	Snapshot() models.Snapshot
	Settings() models.Settings
}

type Exporter interface {
	ExportAll(ctx context.Context, snap models.Snapshot, opts export.Options) (export.Summary, error)
}

func New(log *slog.Logger, service Service, exporter Exporter) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		exporter: exporter,
	}
}

// ServeHTTP godoc
// @Summary Полная выгрузка
// @Description Формирует все четыре формата и сбрасывает счётчик изменений.
// @Tags Exports
// @Produce  json
// @Success 200 {object} response.Response "Итог выгрузки"
// @Failure 503 {object} response.Response "Файлы сохранены, но сброс счётчика не записан"
// @Failure 500 {object} response.Response "Цикл прерван"
// @Router /exports [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.export.run"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	opts := export.Options{
		Compress: h.service.Settings().CompressExports,
		OnProgress: func(p export.Progress) {
			log.Debug("export progress", slog.String("step", p.Title), slog.Int("percent", p.Percent))
		},
	}

	summary, err := h.exporter.ExportAll(r.Context(), h.service.Snapshot(), opts)
	switch {
	case errors.Is(err, subscriber.ErrPersistence):
		log.Error("export finished but state not persisted", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.ErrorWithData("failed to save export state", summary))
		return
	case err != nil:
		log.Error("export cycle failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorWithData("export failed", summary))
		return
	}

	log.Info("export cycle completed", slog.String("export_id", summary.ExportID))
	render.JSON(w, r, response.StatusOKWithData(summary))
}
