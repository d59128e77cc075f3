package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/portfolio-api/internal/config"
	"github.com/noah-isme/portfolio-api/internal/handler"
	"github.com/noah-isme/portfolio-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ContactHandler     *handler.ContactHandler
	DiagnosticsHandler *handler.DiagnosticsHandler
	// MetricsEnabled mounts the Prometheus scrape endpoint at /metrics.
	MetricsEnabled bool
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	app.Get("/", handler.Root())
	app.Get("/api/hello", handler.Hello())

	if deps.DiagnosticsHandler != nil {
		deps.DiagnosticsHandler.Register(app)
	}

	if deps.ContactHandler != nil {
		deps.ContactHandler.Register(app.Group("/api/contact"))
	}

	if deps.MetricsEnabled {
		app.Get("/metrics", observability.MetricsHandler())
	}
}
