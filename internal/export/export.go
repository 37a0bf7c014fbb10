// Package export формирует выгрузки коллекции абонентов в четырёх форматах
// (JSON, CSV, Markdown, HTML) и проводит полный цикл выгрузки.
//
// Форматтеры являются чистыми функциями: результат зависит только от коллекции,
// статистики, момента формирования и метаданных.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// Format формат выгрузки.
type Format string

// Поддерживаемые форматы в порядке полного цикла выгрузки.
const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats возвращает форматы в порядке полного цикла.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatHTML}
}

// ErrUnknownFormat неизвестный формат выгрузки.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat проверяет строку формата. Для Markdown принимается также "md".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatMarkdown, FormatHTML:
		return Format(s), nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Meta метаданные приложения, попадающие в выгрузку.
type Meta struct {
	AppName  string
	Version  string
	ExportID string
}

// Input данные для форматтера.
type Input struct {
	Subscribers []models.Subscriber
	Statistics  models.Statistics
	GeneratedAt time.Time
	Meta        Meta
}

// Formatter превращает данные в содержимое файла.
type Formatter func(in Input) ([]byte, error)

// FormatterFor возвращает форматтер для формата.
func FormatterFor(f Format) (Formatter, error) {
	switch f {
	case FormatJSON:
		return JSON, nil
	case FormatCSV:
		return CSV, nil
	case FormatMarkdown:
		return Markdown, nil
	case FormatHTML:
		return HTML, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// ContentType MIME-тип содержимого формата.
func ContentType(f Format) string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Title название выгрузки для отчёта о ходе выполнения.
func Title(f Format) string {
	switch f {
	case FormatJSON:
		return "JSON Database"
	case FormatCSV:
		return "CSV File"
	case FormatMarkdown:
		return "Markdown Report"
	case FormatHTML:
		return "HTML Dashboard"
	}
	return string(f)
}
