// Package scheduler собирает процесс планировщика напоминаний: читает состояние
// из общего хранилища и публикует напоминания в RabbitMQ.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/salon-subscribers/internal/config"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/metrics"
	"github.com/magabrotheeeer/salon-subscribers/internal/rabbitmq"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/reminder"
	"github.com/magabrotheeeer/salon-subscribers/internal/storage"
)

// App представляет приложение планировщика.
type App struct {
	scheduler *reminder.Scheduler
	interval  time.Duration
	store     storage.Store
	conn      *amqp.Connection
	ch        *amqp.Channel
	logger    *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues(cfg.Notifications.CheckInterval))
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	store, err := storage.Open(ctx, cfg, logger, storage.Options{ReadyRetries: 10, ReadyDelay: 3 * time.Second})
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &App{
		scheduler: reminder.New(store, rabbitmq.NewPublisher(ch), metrics.Default(), logger),
		interval:  cfg.Notifications.CheckInterval,
		store:     store,
		conn:      conn,
		ch:        ch,
		logger:    logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает планировщик и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Run(ctx, a.interval)

	a.logger.Info("shutting down scheduler service")
	closeResources(a.ch, a.conn, a.logger)
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
