package httpapi

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Nithin4045/weather-now/internal/weather"
)

var validate = validator.New()

// Resolver is the lookup the routes need.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (weather.Outcome, bool)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, resolver Resolver) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		outcome, ok := resolver.Resolve(c.UserContext(), q.City)
		if !ok {
			// Validation already rejected blank input; a resolver that still
			// declines is treated the same way.
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		return writeOutcome(c, outcome)
	})
}

// outcomeResponse is the JSON body for /api/v1/weather.
type outcomeResponse struct {
	Status  string                 `json:"status"`
	Result  *weather.WeatherResult `json:"result,omitempty"`
	Message string                 `json:"message,omitempty"`
}

func writeOutcome(c *fiber.Ctx, outcome weather.Outcome) error {
	switch outcome.Kind {
	case weather.OutcomeSuccess:
		r := outcome.Result
		return c.JSON(outcomeResponse{Status: "success", Result: &r})
	case weather.OutcomeNotFound:
		return c.Status(fiber.StatusNotFound).JSON(outcomeResponse{
			Status:  "not_found",
			Message: weather.NotFoundMessage,
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(outcomeResponse{
			Status:  "error",
			Message: outcome.Message,
		})
	}
}

// cityQuery holds query parameters for the weather endpoint.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: strings.TrimSpace(c.Query("city"))}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}
