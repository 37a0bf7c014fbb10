// Package main Salon Subscribers API
//
// @title           Salon Subscribers API
// @version         2.0
// @description     API для учёта абонентов салона: абонементы, статистика, выгрузки и напоминания
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/salon-subscribers/internal/app/api"
	"github.com/magabrotheeeer/salon-subscribers/internal/config"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/logger"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)

	log.Info("starting salon-subscribers", slog.String("env", cfg.Env), slog.String("storage", cfg.StorageDriver))
	log.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := api.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("salon-subscribers stopped gracefully")
}
