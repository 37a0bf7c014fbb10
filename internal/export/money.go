package export

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/lifecycle"
)

var printer = message.NewPrinter(language.English)

// Money форматирует сумму с разделителями разрядов: 1950 -> "$1,950", 99.5 -> "$99.5".
func Money(v float64) string {
	return printer.Sprintf("$%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// HumanDate форматирует дату начала как "Jan 15, 2025". Пустая или некорректная дата
// даёт пустую строку.
func HumanDate(s string) string {
	t, ok := lifecycle.ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
