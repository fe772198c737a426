package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

const serviceName = "weather-now"

// NewApp builds the Fiber app with middleware, health check and API routes.
// upstreamTimeout is the per-request timeout of the outbound HTTP client.
func NewApp(resolver Resolver, log zerolog.Logger, upstreamTimeout time.Duration) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          writeTimeout(upstreamTimeout),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New(logger.Config{
		Output: log,
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	RegisterRoutes(app, resolver)
	return app
}

// writeTimeout leaves room for two sequential upstream calls, each allowed
// the full client timeout, plus the response write.
func writeTimeout(upstreamTimeout time.Duration) time.Duration {
	if upstreamTimeout <= 0 {
		upstreamTimeout = 10 * time.Second
	}
	return 2*upstreamTimeout + 5*time.Second
}
