package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-forecast-chart/internal/chart"
	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/layout"
	"github.com/i474232898/weather-forecast-chart/internal/store"
	"github.com/i474232898/weather-forecast-chart/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. Charts are
// served for the single configured location.
func RegisterRoutes(app *fiber.App, service *weather.Service, loc weather.Location) {
	v1 := app.Group("/api/v1")

	v1.Get("/chart", func(c *fiber.Ctx) error {
		q, err := parseChartQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		desc, err := service.Chart(loc, forecast.Kind(q.Type))
		if err != nil {
			return chartError(err)
		}
		return c.JSON(desc)
	})

	v1.Post("/chart/render", func(c *fiber.Ctx) error {
		q, err := parseChartQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		payload, err := forecast.Decode(c.Body())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		desc, err := service.Render(payload, forecast.Kind(q.Type))
		if err != nil {
			return chartError(err)
		}
		return c.JSON(desc)
	})

	v1.Get("/payload", func(c *fiber.Ctx) error {
		snapshot, err := service.GetLatest(loc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast payload fetched yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read forecast payload")
		}
		return c.JSON(snapshot)
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// chartQuery holds query parameters for the chart endpoints. An empty type
// uses the configured data type.
type chartQuery struct {
	Type string `validate:"omitempty,oneof=hourly daily"`
}

func parseChartQuery(c *fiber.Ctx) (chartQuery, error) {
	q := chartQuery{Type: c.Query("type")}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func chartError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no forecast payload fetched yet")
	case errors.Is(err, layout.ErrPlotAreaTooSmall),
		errors.Is(err, layout.ErrPrecipitationBandTooLarge),
		errors.Is(err, layout.ErrInvalidGeometry),
		errors.Is(err, layout.ErrTemperatureOutOfRange),
		errors.Is(err, chart.ErrInvalidOptions):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build chart")
	}
}
