package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/statistics"
)

// Delivery принимает готовый файл выгрузки.
type Delivery interface {
	Deliver(ctx context.Context, name string, content []byte) error
}

// Recorder фиксирует успешный полный цикл выгрузки. exported значение счётчика
// изменений в выгруженной копии.
type Recorder interface {
	RecordExport(ctx context.Context, at time.Time, exported int) error
}

// Observer учитывает сформированные файлы.
type Observer interface {
	ObserveExport(format string, err error)
}

// File сформированный файл выгрузки.
type File struct {
	Format      Format `json:"format"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	Content     []byte `json:"-"`
}

// Progress ход полного цикла выгрузки.
type Progress struct {
	Format  Format `json:"format"`
	Title   string `json:"title"`
	Percent int    `json:"percent"`
}

// Options параметры полного цикла.
type Options struct {
	Compress   bool
	OnProgress func(Progress)
}

// Summary итог полного цикла.
type Summary struct {
	ExportID   string    `json:"exportId"`
	ExportedAt time.Time `json:"exportedAt"`
	Files      []File    `json:"files"`
}

// Runner проводит выгрузки: формирует файлы, передаёт их получателю
// и после полного цикла списывает выгруженные изменения со счётчика.
type Runner struct {
	log      *slog.Logger
	delivery Delivery
	recorder Recorder
	observer Observer
	meta     Meta
	pacing   time.Duration
	now      func() time.Time
}

// NewRunner создаёт Runner. pacing задаёт паузу перед каждым шагом полного цикла.
func NewRunner(log *slog.Logger, delivery Delivery, recorder Recorder, observer Observer, meta Meta, pacing time.Duration) *Runner {
	return &Runner{
		log:      log,
		delivery: delivery,
		recorder: recorder,
		observer: observer,
		meta:     meta,
		pacing:   pacing,
		now:      time.Now,
	}
}

// Render формирует файл одного формата на момент at.
func (r *Runner) Render(f Format, subs []models.Subscriber, at time.Time, exportID string) (File, error) {
	const op = "export.Render"

	formatter, err := FormatterFor(f)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", op, err)
	}
	meta := r.meta
	meta.ExportID = exportID

	content, err := formatter(Input{
		Subscribers: subs,
		Statistics:  statistics.Aggregate(subs, at),
		GeneratedAt: at,
		Meta:        meta,
	})
	r.observe(f, err)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", op, err)
	}

	return File{
		Format:      f,
		Name:        Filename(f, at),
		ContentType: ContentType(f),
		Size:        len(content),
		Content:     content,
	}, nil
}

// ExportOne формирует файл одного формата. Счётчик изменений не сбрасывается:
// это делает только полный цикл.
func (r *Runner) ExportOne(ctx context.Context, f Format, subs []models.Subscriber, compress bool) (File, error) {
	const op = "export.ExportOne"

	if err := ctx.Err(); err != nil {
		return File{}, fmt.Errorf("%s: %w", op, err)
	}
	file, err := r.Render(f, subs, r.now(), uuid.NewString())
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", op, err)
	}
	if compress {
		if file, err = gzipFile(file); err != nil {
			return File{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return file, nil
}

// ExportAll проводит полный цикл над снимком snap: JSON, CSV, Markdown, HTML
// строго по порядку, перед каждым шагом выдерживая паузу и сообщая прогресс 25/50/75/100.
// Снимок должен быть снят целиком, вместе со счётчиком изменений: после успеха
// из счётчика вычитается snap.ChangesSinceExport.
// Отмена контекста прерывает цикл между шагами, счётчик при этом не меняется.
func (r *Runner) ExportAll(ctx context.Context, snap models.Snapshot, opts Options) (Summary, error) {
	const op = "export.ExportAll"

	subs := snap.Subscribers

	at := r.now()
	summary := Summary{
		ExportID:   uuid.NewString(),
		ExportedAt: at.UTC(),
		Files:      make([]File, 0, len(Formats())),
	}
	log := r.log.With(slog.String("op", op), slog.String("export_id", summary.ExportID))

	formats := Formats()
	for i, f := range formats {
		if err := r.wait(ctx); err != nil {
			log.Warn("export cycle interrupted", slog.String("format", string(f)), sl.Err(err))
			return summary, fmt.Errorf("%s: %w", op, err)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Format: f, Title: Title(f), Percent: (i + 1) * 100 / len(formats)})
		}

		file, err := r.Render(f, subs, at, summary.ExportID)
		if err != nil {
			return summary, fmt.Errorf("%s: %w", op, err)
		}
		if opts.Compress {
			if file, err = gzipFile(file); err != nil {
				return summary, fmt.Errorf("%s: %w", op, err)
			}
		}
		if err := r.delivery.Deliver(ctx, file.Name, file.Content); err != nil {
			log.Error("failed to deliver export file", slog.String("file", file.Name), sl.Err(err))
			return summary, fmt.Errorf("%s: %w", op, err)
		}
		log.Debug("export file delivered", slog.String("file", file.Name), slog.Int("size", file.Size))
		summary.Files = append(summary.Files, file)
	}

	if r.recorder != nil {
		if err := r.recorder.RecordExport(ctx, at, snap.ChangesSinceExport); err != nil {
			return summary, fmt.Errorf("%s: %w", op, err)
		}
	}
	log.Info("export cycle completed", slog.Int("files", len(summary.Files)), slog.Int("subscribers", len(subs)))
	return summary, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.pacing <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Runner) observe(f Format, err error) {
	if r.observer != nil {
		r.observer.ObserveExport(string(f), err)
	}
}

func gzipFile(file File) (File, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Name = file.Name
	if _, err := zw.Write(file.Content); err != nil {
		return File{}, err
	}
	if err := zw.Close(); err != nil {
		return File{}, err
	}
	file.Name += ".gz"
	file.ContentType = "application/gzip"
	file.Content = buf.Bytes()
	file.Size = buf.Len()
	return file, nil
}

// DirDelivery сохраняет файлы выгрузки в каталог.
type DirDelivery struct {
	Dir string
}

// Deliver записывает файл, создавая каталог при необходимости.
func (d DirDelivery) Deliver(ctx context.Context, name string, content []byte) error {
	const op = "export.DirDelivery.Deliver"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(filepath.Join(d.Dir, filepath.Base(name)), content, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
