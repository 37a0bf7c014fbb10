// Package rabbitmq содержит подключение к RabbitMQ, объявление обменника
// и очередей напоминаний, публикацию и потребление сообщений.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Prefetch сколько неподтверждённых напоминаний брокер отдаёт одному потребителю.
const Prefetch = 10

// Connect подключается к брокеру, повторяя попытку retries раз с паузой delay.
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var lastErr error

	for attempt := range max(retries, 1) {
		conn, err := amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if attempt < retries-1 {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

// SetupChannel открывает канал, объявляет прямой обменник Exchange
// и привязывает к нему очереди напоминаний.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(Prefetch, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if err := declareQueue(ch, q); err != nil {
			ch.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return ch, nil
}

func declareQueue(ch *amqp.Channel, q QueueConfig) error {
	// durable, без автоудаления, не эксклюзивная
	if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, q.args()); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", q.QueueName, err)
	}
	if err := ch.QueueBind(q.QueueName, q.RoutingKey, Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s with routing key %s: %w", q.QueueName, q.RoutingKey, err)
	}
	return nil
}
