package export

import (
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// Filename имя файла выгрузки вида <префикс>_<YYYY-MM-DD>.<расширение>.
func Filename(f Format, date time.Time) string {
	day := date.Format(models.DateLayout)
	switch f {
	case FormatJSON:
		return "subscribers_" + day + ".json"
	case FormatCSV:
		return "subscribers_" + day + ".csv"
	case FormatMarkdown:
		return "SALON_DATA_" + day + ".md"
	case FormatHTML:
		return "salon_dashboard_" + day + ".html"
	}
	return "export_" + day
}

// ChangeLogFilename имя файла журнала изменений.
func ChangeLogFilename(date time.Time) string {
	return "CHANGELOG_" + date.Format(models.DateLayout) + ".md"
}
