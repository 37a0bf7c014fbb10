package export

import (
	"fmt"
	"strings"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/lifecycle"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// Markdown текстовый отчёт: таблица статистики, разбивки и список абонентов.
func Markdown(in Input) ([]byte, error) {
	stats := in.Statistics
	date := in.GeneratedAt.Format("Jan 2, 2006")

	var b strings.Builder
	b.WriteString("# Elite Salon - Subscriber Management Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", date)
	fmt.Fprintf(&b, "**Total Subscribers:** %d\n", len(in.Subscribers))
	fmt.Fprintf(&b, "**Application:** %s v%s\n\n", in.Meta.AppName, in.Meta.Version)

	b.WriteString("## 📊 Statistics\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Total Subscribers | %d |\n", stats.TotalSubscribers)
	fmt.Fprintf(&b, "| Active Subscriptions | %d |\n", stats.ActiveSubscriptions)
	fmt.Fprintf(&b, "| Expiring Soon | %d |\n", stats.ExpiringSubscriptions)
	fmt.Fprintf(&b, "| Expired | %d |\n", stats.ExpiredSubscriptions)
	fmt.Fprintf(&b, "| Total Revenue | %s |\n\n", Money(stats.TotalRevenue))

	breakdown(&b, "Subscription Types Distribution", stats.SubscriptionTypes, "subscribers")
	breakdown(&b, "Payment Methods", stats.PaymentMethods, "transactions")
	breakdown(&b, "Popular Services", stats.ServicesPopularity, "subscriptions")

	b.WriteString("## 👥 All Subscribers\n\n")
	b.WriteString("| Name | Phone | Type | Start Date | Status | Amount |\n")
	b.WriteString("|------|-------|------|------------|--------|--------|\n")
	for _, s := range in.Subscribers {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(s.Name),
			cell(s.Phone),
			cell(s.SubscriptionType),
			HumanDate(s.StartDate),
			lifecycle.Of(s, in.GeneratedAt),
			Money(s.Amount),
		)
	}

	b.WriteString("\n---\n")
	b.WriteString("*This report was generated automatically by Elite Salon Management System*\n")
	fmt.Fprintf(&b, "*Last updated: %s*", date)

	return []byte(b.String()), nil
}

func breakdown(b *strings.Builder, title string, counts map[string]int, unit string) {
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, c := range models.Ranked(counts) {
		fmt.Fprintf(b, "- **%s:** %d %s\n", c.Key, c.Count, unit)
	}
	b.WriteString("\n")
}

// cell экранирует символы, ломающие строку таблицы.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.NewReplacer("\r\n", " ", "\n", " ").Replace(s)
}
