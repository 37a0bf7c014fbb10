package rabbitmq

import (
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationQueues(t *testing.T) {
	queues := NotificationQueues(12 * time.Hour)

	require.Len(t, queues, 2)
	assert.Equal(t, QueueConfig{QueueName: "notification.backup", RoutingKey: "backup", TTL: 12 * time.Hour}, queues[0])
	assert.Equal(t, QueueConfig{QueueName: "notification.renewal", RoutingKey: "renewal", TTL: 12 * time.Hour}, queues[1])

	seen := map[string]bool{}
	for _, q := range queues {
		assert.Falsef(t, seen[q.QueueName], "duplicate queue name: %s", q.QueueName)
		seen[q.QueueName] = true
	}
}

func TestQueueConfig_Args(t *testing.T) {
	assert.Nil(t, QueueConfig{QueueName: QueueBackup}.args())
	assert.Nil(t, QueueConfig{QueueName: QueueBackup, TTL: -time.Second}.args())
	assert.Equal(t, amqp.Table{"x-message-ttl": int64(90000)},
		QueueConfig{QueueName: QueueBackup, TTL: 90 * time.Second}.args())
}
