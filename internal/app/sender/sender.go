// Package sender собирает процесс отправки писем: потребляет очереди напоминаний
// и рассылает письма через SMTP.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/salon-subscribers/internal/config"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/smtp"
	"github.com/magabrotheeeer/salon-subscribers/internal/metrics"
	"github.com/magabrotheeeer/salon-subscribers/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/salon-subscribers/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues(cfg.Notifications.CheckInterval))
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.New(transport, logger, metrics.Default(), cfg.Notifications.OwnerEmail, cfg.Export.AppName)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	consumers := map[string]func([]byte) error{
		rabbitmq.QueueBackup:  a.senderService.SendBackupReminder,
		rabbitmq.QueueRenewal: a.senderService.SendRenewalReminder,
	}
	for queue, handler := range consumers {
		if err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, queue, dropMalformed(a.logger, handler)); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", queue), sl.Err(err))
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}

// dropMalformed подтверждает сообщения, которые невозможно разобрать:
// повторная доставка их не исправит.
func dropMalformed(log *slog.Logger, handler func([]byte) error) func([]byte) error {
	return func(body []byte) error {
		err := handler(body)
		if errors.Is(err, senderservice.ErrMalformed) {
			log.Warn("malformed reminder dropped", sl.Err(err))
			return nil
		}
		return err
	}
}
