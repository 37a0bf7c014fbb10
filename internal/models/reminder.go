package models

import "time"

// BackupReminder сообщение о необходимости выгрузить резервную копию.
type BackupReminder struct {
	ChangesSinceExport int        `json:"changes_since_export"`
	LastExportTime     *time.Time `json:"last_export_time"`
	ReminderInterval   int        `json:"reminder_interval"`
	CreatedAt          time.Time  `json:"created_at"`
}

// RenewalReminder сообщение абоненту о скором окончании абонемента.
type RenewalReminder struct {
	SubscriberID     int    `json:"subscriber_id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	SubscriptionType string `json:"subscription_type"`
	ExpiryDate       string `json:"expiry_date"`
}
