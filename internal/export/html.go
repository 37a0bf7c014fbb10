package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/lifecycle"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

type htmlRow struct {
	Name      string
	Phone     string
	Email     string
	Type      string
	StartDate string
	Status    models.Status
	Amount    string
}

type htmlPage struct {
	AppName     string
	Version     string
	GeneratedOn string
	Year        int
	Stats       models.Statistics
	Revenue     string
	Rows        []htmlRow
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

// HTML самостоятельный документ со встроенными стилями, карточками статистики
// и таблицей абонентов. Внешних ресурсов не использует.
func HTML(in Input) ([]byte, error) {
	const op = "export.HTML"

	page := htmlPage{
		AppName:     in.Meta.AppName,
		Version:     in.Meta.Version,
		GeneratedOn: in.GeneratedAt.Format("Jan 2, 2006"),
		Year:        in.GeneratedAt.Year(),
		Stats:       in.Statistics,
		Revenue:     Money(in.Statistics.TotalRevenue),
		Rows:        make([]htmlRow, 0, len(in.Subscribers)),
	}
	for _, s := range in.Subscribers {
		email := s.Email
		if email == "" {
			email = "-"
		}
		page.Rows = append(page.Rows, htmlRow{
			Name:      s.Name,
			Phone:     s.Phone,
			Email:     email,
			Type:      s.SubscriptionType,
			StartDate: HumanDate(s.StartDate),
			Status:    lifecycle.Of(s, in.GeneratedAt),
			Amount:    Money(s.Amount),
		})
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Elite Salon - Subscriber Management</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header { background: #1FB8CD; color: white; padding: 20px; border-radius: 8px; margin-bottom: 30px; text-align: center; }
        .stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-bottom: 30px; }
        .stat-card { background: #f8f9fa; padding: 20px; border-radius: 8px; text-align: center; border: 1px solid #dee2e6; }
        .stat-card h3 { margin: 0 0 10px 0; font-size: 2em; color: #1FB8CD; }
        .stat-card p { margin: 0; color: #6c757d; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #dee2e6; }
        th { background-color: #f8f9fa; font-weight: 600; }
        tr:hover { background-color: #f8f9fa; }
        .status-active { background: #d4edda; color: #155724; padding: 4px 8px; border-radius: 4px; }
        .status-expired { background: #f8d7da; color: #721c24; padding: 4px 8px; border-radius: 4px; }
        .status-expiring { background: #fff3cd; color: #856404; padding: 4px 8px; border-radius: 4px; }
        .status-unknown { background: #e2e3e5; color: #383d41; padding: 4px 8px; border-radius: 4px; }
        .empty { text-align: center; color: #6c757d; }
        .footer { text-align: center; color: #6c757d; font-size: 0.9em; margin-top: 40px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>🎀 Elite Salon Management</h1>
        <p>Subscriber Management Dashboard</p>
        <p>Generated on {{.GeneratedOn}}</p>
    </div>

    <div class="stats-grid">
        <div class="stat-card">
            <h3>{{.Stats.TotalSubscribers}}</h3>
            <p>Total Subscribers</p>
        </div>
        <div class="stat-card">
            <h3>{{.Stats.ActiveSubscriptions}}</h3>
            <p>Active Subscriptions</p>
        </div>
        <div class="stat-card">
            <h3>{{.Stats.ExpiringSubscriptions}}</h3>
            <p>Expiring Soon</p>
        </div>
        <div class="stat-card">
            <h3>{{.Revenue}}</h3>
            <p>Total Revenue</p>
        </div>
    </div>

    <div class="section">
        <h2>📋 All Subscribers</h2>
        <table>
            <thead>
                <tr>
                    <th>Name</th>
                    <th>Phone</th>
                    <th>Email</th>
                    <th>Type</th>
                    <th>Start Date</th>
                    <th>Status</th>
                    <th>Amount</th>
                </tr>
            </thead>
            <tbody>
{{- range .Rows}}
                <tr>
                    <td>{{.Name}}</td>
                    <td>{{.Phone}}</td>
                    <td>{{.Email}}</td>
                    <td>{{.Type}}</td>
                    <td>{{.StartDate}}</td>
                    <td><span class="status-{{.Status}}">{{.Status}}</span></td>
                    <td>{{.Amount}}</td>
                </tr>
{{- else}}
                <tr><td class="empty" colspan="7">No subscribers yet</td></tr>
{{- end}}
            </tbody>
        </table>
    </div>

    <div class="footer">
        <p>Generated by {{.AppName}} v{{.Version}}</p>
        <p>© {{.Year}} Elite Salon. All rights reserved.</p>
    </div>
</body>
</html>
`
