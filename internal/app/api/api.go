package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/salon-subscribers/internal/config"
	"github.com/magabrotheeeer/salon-subscribers/internal/export"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/metrics"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
	"github.com/magabrotheeeer/salon-subscribers/internal/storage"
)

// MigrationsPath каталог миграций относительно рабочего каталога процесса.
const MigrationsPath = "./migrations"

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	store  storage.Store
}

// New открывает хранилище, загружает коллекцию и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.api.New"

	store, err := storage.Open(ctx, cfg, logger, storage.Options{MigrationsPath: MigrationsPath})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.Default()
	service := subscriber.New(store, logger, m, subscriber.Options{
		Version:        cfg.Export.Version,
		SeedSampleData: cfg.SeedSampleData,
		PageSize:       cfg.View.PageSize,
	})
	if err := service.Load(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	runner := export.NewRunner(
		logger,
		export.DirDelivery{Dir: cfg.Export.Dir},
		service,
		m,
		export.Meta{AppName: cfg.Export.AppName, Version: cfg.Export.Version},
		cfg.Export.Pacing,
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.RateLimit, service, runner, store)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP + cfg.Export.Pacing*time.Duration(len(export.Formats())),
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер и закрывает хранилище.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeStore()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeStore()
		return err
	}
}

func (a *App) closeStore() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
