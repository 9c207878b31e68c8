package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"nameplate/internal/auth"
	"nameplate/internal/config"
	"nameplate/internal/http/handlers"
	"nameplate/internal/http/middleware"
	"nameplate/internal/infra/chrome"
	"nameplate/internal/infra/logging"
	"nameplate/internal/service"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Config   config.Config
	Exporter *service.Exporter
	// Printer is nil with the native PDF backend.
	Printer *chrome.Printer
	// Keys is nil when API key auth is disabled.
	Keys *auth.Keys
}

// New builds the Fiber app with middleware, routes and a JSON error handler.
func New(d Deps) *fiber.App {
	cfg := d.Config
	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		DisableStartupMessage: true,
		BodyLimit:             cfg.Limits.MaxBodyBytes,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				msg = e.Message
			}

			logging.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})

	middleware.Register(app, cfg, d.Keys)
	registerRoutes(app, d)

	// 404s are JSON too.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

func registerRoutes(app *fiber.App, d Deps) {
	cfg := d.Config
	v1 := app.Group("/v1")

	orders := handlers.NewOrders(d.Exporter, exportTimeout(cfg))
	v1.Post("/orders/export", orders.Export)
	v1.Post("/orders/preview", orders.Preview)

	v1.Get("/chrome/stats", handlers.ChromeStats(d.Printer, cfg.PDF.ChromePoolSize, cfg.PDF.TimeoutSecs))
	v1.Get("/monitor", monitor.New())
}

// exportTimeout leaves room for upload after a full-length render.
func exportTimeout(cfg config.Config) time.Duration {
	render := time.Duration(cfg.PDF.TimeoutSecs) * time.Second
	if render <= 0 {
		render = 30 * time.Second
	}
	return 2*render + cfg.Notify.Timeout
}
