package subscriber

import (
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// sampleSubscribers начальные записи для пустого хранилища.
func sampleSubscribers() []models.Subscriber {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []models.Subscriber{
		{
			ID:               1,
			Name:             "Sarah Johnson",
			Phone:            "+1-555-0123",
			Email:            "sarah.johnson@email.com",
			Address:          "123 Main St, City",
			SubscriptionType: models.PlanYearly,
			StartDate:        "2025-01-15",
			Services:         []string{"Haircut", "Hair Color", "Facial"},
			Amount:           1200,
			PaymentMethod:    "Card",
			Notes:            "Regular customer, prefers morning appointments",
			CreatedAt:        at("2025-01-15T10:30:00Z"),
			UpdatedAt:        at("2025-01-15T10:30:00Z"),
		},
		{
			ID:               2,
			Name:             "Maria Garcia",
			Phone:            "+1-555-0456",
			Email:            "maria.garcia@email.com",
			Address:          "456 Oak Ave, City",
			SubscriptionType: models.PlanHalfYearly,
			StartDate:        "2025-03-10",
			Services:         []string{"Manicure", "Pedicure", "Facial"},
			Amount:           600,
			PaymentMethod:    "UPI",
			Notes:            "Allergic to certain nail polish brands",
			CreatedAt:        at("2025-03-10T14:20:00Z"),
			UpdatedAt:        at("2025-03-10T14:20:00Z"),
		},
		{
			ID:               3,
			Name:             "Jennifer Smith",
			Phone:            "+1-555-0789",
			Email:            "jen.smith@email.com",
			Address:          "789 Pine Rd, City",
			SubscriptionType: models.PlanMonthly,
			StartDate:        "2025-08-01",
			Services:         []string{"Haircut", "Massage"},
			Amount:           150,
			PaymentMethod:    "Cash",
			Notes:            "Prefers specific stylist",
			CreatedAt:        at("2025-08-01T09:15:00Z"),
			UpdatedAt:        at("2025-08-01T09:15:00Z"),
		},
	}
}
