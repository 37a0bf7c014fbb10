package rabbitmq

import (
	"time"

	"github.com/streadway/amqp"
)

// Exchange обменник напоминаний.
const Exchange = "notifications"

// Ключи маршрутизации.
const (
	RoutingBackup  = "backup"
	RoutingRenewal = "renewal"
)

// Очереди напоминаний.
const (
	QueueBackup  = "notification.backup"
	QueueRenewal = "notification.renewal"
)

// QueueConfig очередь и ключ, которым она привязана к Exchange.
// TTL ограничивает время жизни сообщения в очереди, ноль означает без ограничения.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
	TTL        time.Duration
}

func (q QueueConfig) args() amqp.Table {
	if q.TTL <= 0 {
		return nil
	}
	return amqp.Table{"x-message-ttl": q.TTL.Milliseconds()}
}

// NotificationQueues очереди, которые объявляют и планировщик, и отправитель.
// Напоминание старше одного интервала проверки заменяется следующим, поэтому ttl
// обычно равен интервалу. Оба процесса должны передавать одно и то же значение.
func NotificationQueues(ttl time.Duration) []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueBackup, RoutingKey: RoutingBackup, TTL: ttl},
		{QueueName: QueueRenewal, RoutingKey: RoutingRenewal, TTL: ttl},
	}
}
