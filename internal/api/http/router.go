package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workdesk-labs/work-mediator/internal/api/http/handlers"
	"github.com/workdesk-labs/work-mediator/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Prefix         string
	Health         *handlers.HealthHandler
	Chat           *handlers.ChatHandler
	Guidelines     *handlers.GuidelinesHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group(cfg.Prefix)

	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/chat", cfg.Chat.Chat)
	if cfg.Guidelines != nil {
		protected.Post("/guidelines", cfg.Guidelines.Add)
	}
	if cfg.Metrics != nil {
		protected.Get("/metrics", cfg.Metrics.Snapshot)
	}
}
