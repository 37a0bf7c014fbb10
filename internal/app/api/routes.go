// Package api собирает HTTP API сервиса: хранилище, сервис абонентов,
// выгрузку, метрики и маршруты.
package api

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/salon-subscribers/internal/config"
	"github.com/magabrotheeeer/salon-subscribers/internal/export"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/changes/changelog"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/changes/status"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/export/download"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/export/run"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/health"
	getsettings "github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/settings/get"
	updatesettings "github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/settings/update"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/subscriber/create"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/subscriber/list"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/subscriber/read"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/subscriber/remove"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/handlers/subscriber/update"
	"github.com/magabrotheeeer/salon-subscribers/internal/http/middlewarectx"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.RateLimit, service *subscriber.Service, runner *export.Runner, pinger health.Pinger) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New(logger, pinger).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RPS, cfg.Burst))

			r.Post("/subscribers", create.New(logger, service).ServeHTTP)
			r.Get("/subscribers", list.New(logger, service).ServeHTTP)
			r.Get("/subscribers/{id}", read.New(logger, service).ServeHTTP)
			r.Put("/subscribers/{id}", update.New(logger, service).ServeHTTP)
			r.Delete("/subscribers/{id}", remove.New(logger, service).ServeHTTP)

			r.Get("/dashboard", dashboard.New(logger, service).ServeHTTP)
			r.Get("/settings", getsettings.New(logger, service).ServeHTTP)
			r.Put("/settings", updatesettings.New(logger, service).ServeHTTP)
			r.Get("/changes", status.New(logger, service).ServeHTTP)
			r.Get("/changes/log", changelog.New(logger, service).ServeHTTP)

			r.Get("/exports/{format}", download.New(logger, service, runner).ServeHTTP)
			r.Post("/exports", run.New(logger, service, runner).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
