// Package changelog реализует HTTP-обработчик выгрузки журнала изменений в Markdown.
package changelog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-subscribers/internal/export"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/response"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

type Service interface {
	ChangeLog(at time.Time) ([]byte, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Журнал изменений
// @Description Markdown-файл с числом изменений с последней выгрузки. Если изменений нет, возвращается 409.
// @Tags Changes
// @Produce  text/markdown
// @Success 200 {file} file "CHANGELOG_<дата>.md"
// @Failure 409 {object} response.ErrorResponse "Изменений нет"
// @Router /changes/log [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.changes.changelog"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	now := h.now()
	content, err := h.service.ChangeLog(now)
	if errors.Is(err, export.ErrNoChanges) {
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("no changes to log"))
		return
	}
	if err != nil {
		log.Error("failed to build change log", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build change log"))
		return
	}

	w.Header().Set("Content-Type", export.ContentType(export.FormatMarkdown))
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.ChangeLogFilename(now)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if _, err := w.Write(content); err != nil {
		log.Error("failed to write change log", sl.Err(err))
	}
}
