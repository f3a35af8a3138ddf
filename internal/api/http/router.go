package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/animation-service/internal/api/http/handlers"
	"github.com/spec-kit/animation-service/internal/auth"
	"github.com/spec-kit/animation-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Animations     *handlers.AnimationsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Get("/auth", cfg.Auth.Login)
	api.Post("/auth", cfg.Auth.Login)

	api.Get("/hello", cfg.AuthMiddleware.RequireAnyAuthenticated(), cfg.Auth.Hello)

	users := api.Group("/user", cfg.AuthMiddleware.RequireByMethod())
	users.Post("", cfg.Users.Create)
	users.Get("", cfg.Users.List)
	users.Patch("", cfg.Users.Update)
	users.Get("/:id", cfg.Users.Get)
	users.Delete("/:id", cfg.Users.Delete)

	animations := api.Group("/animation", cfg.AuthMiddleware.RequireByMethod())
	animations.Post("", cfg.Animations.Create)
	animations.Get("", cfg.Animations.List)
	animations.Patch("", cfg.Animations.Update)
	animations.Get("/:id", cfg.Animations.Get)
	animations.Delete("/:id", cfg.Animations.Delete)
}
