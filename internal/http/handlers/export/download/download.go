// Package download реализует HTTP-обработчик выгрузки одного формата.
// Файл отдаётся как вложение, счётчик изменений при этом не сбрасывается.
package download

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-subscribers/internal/export"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/response"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	exporter Exporter
}

// Service источник данных для выгрузки.
type Service interface {
	Subscribers() []models.Subscriber
	Settings() models.Settings
}

// Exporter формирует файл выгрузки.
type Exporter interface {
	ExportOne(ctx context.Context, f export.Format, subs []models.Subscriber, compress bool) (export.File, error)
}

func New(log *slog.Logger, service Service, exporter Exporter) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		exporter: exporter,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка одного формата
// @Description Формирует файл json, csv, markdown или html. Параметр compress переопределяет настройку compressExports.
// @Tags Exports
// @Produce  octet-stream
// @Param format path string true "Формат: json, csv, markdown, html"
// @Param compress query bool false "Сжать gzip"
// @Success 200 {file} file "Файл выгрузки"
// @Failure 400 {object} response.ErrorResponse "Неизвестный формат"
// @Failure 500 {object} response.ErrorResponse "Ошибка формирования"
// @Router /exports/{format} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.export.download"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		log.Info("unknown export format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown export format"))
		return
	}

	compress := h.service.Settings().CompressExports
	if s := r.URL.Query().Get("compress"); s != "" {
		if compress, err = strconv.ParseBool(s); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid compress flag"))
			return
		}
	}

	file, err := h.exporter.ExportOne(r.Context(), format, h.service.Subscribers(), compress)
	if err != nil {
		log.Error("failed to export", slog.String("format", string(format)), sl.Err(err))
		if errors.Is(err, context.Canceled) {
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not export data"))
		return
	}

	log.Info("export downloaded", slog.String("file", file.Name), slog.Int("size", file.Size))
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(file.Size))
	if _, err := w.Write(file.Content); err != nil {
		log.Error("failed to write export", sl.Err(err))
	}
}
