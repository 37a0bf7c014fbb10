package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/statistics"
)

var generatedAt = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

var meta = Meta{AppName: "Elite Salon Subscriber Management", Version: "2.0", ExportID: "run-1"}

func subscribers() []models.Subscriber {
	created := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	return []models.Subscriber{
		{
			ID: 1, Name: "Sarah Johnson", Phone: "+1-555-0101", Email: "sarah@example.com",
			Address: "12 Main St", SubscriptionType: models.PlanYearly, StartDate: "2025-01-15",
			Services: []string{"Hair Cut", "Facial"}, Amount: 1200, PaymentMethod: "Card",
			Notes: `Prefers "quiet" rooms`, CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: 2, Name: "Maria | Garcia", Phone: "+1-555-0102", SubscriptionType: models.PlanHalfYearly,
			StartDate: "2025-03-10", Services: []string{"Manicure"}, Amount: 600, PaymentMethod: "UPI",
			CreatedAt: created.AddDate(0, 2, 0), UpdatedAt: created.AddDate(0, 2, 0),
		},
	}
}

func input(subs []models.Subscriber) Input {
	return Input{
		Subscribers: subs,
		Statistics:  statistics.Aggregate(subs, generatedAt),
		GeneratedAt: generatedAt,
		Meta:        meta,
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	subs := subscribers()

	data, err := JSON(input(subs))
	require.NoError(t, err)

	doc, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, subs, doc.Subscribers)
	assert.Equal(t, 2, doc.ExportInfo.TotalSubscribers)
	assert.Equal(t, "run-1", doc.ExportInfo.ExportID)
	assert.Equal(t, meta.AppName, doc.ExportInfo.AppName)
	assert.True(t, generatedAt.Equal(doc.ExportInfo.ExportDate))
	assert.Equal(t, 1800.0, doc.Statistics.TotalRevenue)
}

func TestJSON_Empty(t *testing.T) {
	data, err := JSON(input(nil))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `[]`, string(raw["subscribers"]))

	doc, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Empty(t, doc.Subscribers)
	assert.Zero(t, doc.Statistics.TotalSubscribers)
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte(`{"subscribers": 5}`))
	assert.Error(t, err)
}

func TestCSV(t *testing.T) {
	data, err := CSV(input(subscribers()))
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name,Phone,Email,Address,Subscription Type,Start Date,Services,Amount,Payment Method,Notes,Status,Created At,Updated At", lines[0])
	assert.Equal(t,
		`1,"Sarah Johnson","+1-555-0101","sarah@example.com","12 Main St","Yearly","2025-01-15","Hair Cut; Facial",1200,"Card","Prefers ""quiet"" rooms","active","2025-01-15T09:30:00.000Z","2025-01-15T09:30:00.000Z"`,
		lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `2,"Maria | Garcia","+1-555-0102","",""`))
	assert.Contains(t, lines[2], `"expiring"`)
}

func TestCSV_Empty(t *testing.T) {
	data, err := CSV(input(nil))
	require.NoError(t, err)
	assert.Equal(t, NoData, string(data))
}

func TestMarkdown(t *testing.T) {
	data, err := Markdown(input(subscribers()))
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "# Elite Salon - Subscriber Management Report\n\n"))
	assert.Contains(t, out, "**Generated:** Sep 1, 2025\n")
	assert.Contains(t, out, "**Application:** Elite Salon Subscriber Management v2.0")
	assert.Contains(t, out, "| Total Revenue | $1,800 |")
	assert.Contains(t, out, "- **Card:** 1 transactions")
	assert.Contains(t, out, "- **Hair Cut:** 1 subscriptions")
	assert.Contains(t, out, `| Maria \| Garcia | +1-555-0102 | Half-yearly | Mar 10, 2025 | expiring | $600 |`)
	assert.True(t, strings.HasSuffix(out, "*Last updated: Sep 1, 2025*"))
}

func TestMarkdown_Empty(t *testing.T) {
	data, err := Markdown(input(nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), "| Total Subscribers | 0 |")
	assert.Contains(t, string(data), "| Total Revenue | $0 |")
}

func TestHTML(t *testing.T) {
	subs := subscribers()
	subs[0].Name = `<script>alert("x")</script>`

	data, err := HTML(input(subs))
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<style>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `<span class="status-expiring">expiring</span>`)
	assert.Contains(t, out, "<h3>$1,800</h3>")
	assert.Contains(t, out, "<td>-</td>")
	assert.Contains(t, out, "© 2025 Elite Salon")
}

func TestHTML_EmptyShell(t *testing.T) {
	data, err := HTML(input(nil))
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "No subscribers yet")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</html>"))
}

func TestFilename(t *testing.T) {
	day := time.Date(2025, 9, 1, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "subscribers_2025-09-01.json", Filename(FormatJSON, day))
	assert.Equal(t, "subscribers_2025-09-01.csv", Filename(FormatCSV, day))
	assert.Equal(t, "SALON_DATA_2025-09-01.md", Filename(FormatMarkdown, day))
	assert.Equal(t, "salon_dashboard_2025-09-01.html", Filename(FormatHTML, day))
	assert.Equal(t, "CHANGELOG_2025-09-01.md", ChangeLogFilename(day))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestChangeLog(t *testing.T) {
	_, err := ChangeLog(0, generatedAt)
	assert.ErrorIs(t, err, ErrNoChanges)

	data, err := ChangeLog(4, generatedAt)
	require.NoError(t, err)
	assert.Contains(t, string(data), "**Changes since last export:** 4")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0", Money(0))
	assert.Equal(t, "$1,950", Money(1950))
	assert.Equal(t, "$99.5", Money(99.5))
	assert.Equal(t, "$1,234,567.89", Money(1234567.891))
}
