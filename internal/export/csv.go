package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/lifecycle"
)

// NoData содержимое табличной выгрузки пустой коллекции.
const NoData = "No data available"

var csvHeader = []string{
	"ID", "Name", "Phone", "Email", "Address", "Subscription Type",
	"Start Date", "Services", "Amount", "Payment Method", "Notes",
	"Status", "Created At", "Updated At",
}

// CSV табличная выгрузка: строка заголовков и по строке на абонента.
// Текстовые поля всегда в кавычках, кавычки внутри удваиваются.
func CSV(in Input) ([]byte, error) {
	if len(in.Subscribers) == 0 {
		return []byte(NoData), nil
	}

	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	for _, s := range in.Subscribers {
		row := []string{
			strconv.Itoa(s.ID),
			quote(s.Name),
			quote(s.Phone),
			quote(s.Email),
			quote(s.Address),
			quote(s.SubscriptionType),
			quote(s.StartDate),
			quote(strings.Join(s.Services, "; ")),
			strconv.FormatFloat(s.Amount, 'f', -1, 64),
			quote(s.PaymentMethod),
			quote(s.Notes),
			quote(string(lifecycle.Of(s, in.GeneratedAt))),
			quote(timestamp(s.CreatedAt)),
			quote(timestamp(s.UpdatedAt)),
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, ","))
	}
	return []byte(b.String()), nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
