package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/temperature-history/internal/logging"
	"github.com/i474232898/temperature-history/internal/store"
	"github.com/i474232898/temperature-history/internal/weather"
)

var validate = validator.New()

// Queries is the read side of the time-series store.
type Queries interface {
	QueryHistory(ctx context.Context, source string, from, to time.Time) ([]weather.DataPoint, error)
	QueryMinMax(ctx context.Context, source string, from, to time.Time) (weather.MinMax, error)
	QueryTwoWindowMinMax(ctx context.Context, source string, from, to time.Time) (weather.TwoWindowMinMax, error)
	QueryForecast(ctx context.Context, source string, from, to time.Time) ([]weather.ForecastRecord, error)
}

// Store is what the HTTP layer needs from the time-series store: the read side
// plus observation writes from push-style sensors.
type Store interface {
	Queries
	InsertObservation(ctx context.Context, source string, temperature float64, humidity *int, perceived *float64) error
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, db Store) {
	v1 := app.Group("/api/v1")

	// Push endpoint for sensors that report on their own schedule,
	// e.g. /api/v1/log?id=shellyht-1&temp=21.5&hum=48
	v1.Get("/log", func(c *fiber.Ctx) error {
		q, err := parseLogQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := db.InsertObservation(c.UserContext(), q.ID, *q.Temp, q.Hum, nil); err != nil {
			logging.Error("failed to store pushed observation", "source", q.ID, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store observation")
		}
		logging.Info("pushed observation stored", "source", q.ID, "temperature", *q.Temp, "humidity", *q.Hum)
		return c.SendStatus(fiber.StatusOK)
	})

	v1.Get("/temperature/history", func(c *fiber.Ctx) error {
		q, err := parseWindowQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		points, err := db.QueryHistory(c.UserContext(), q.Source, q.From, q.To)
		if err != nil {
			logging.Error("failed to get temperature history", "source", q.Source, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch temperature history")
		}
		return c.JSON(points)
	})

	v1.Get("/temperature/minmax", func(c *fiber.Ctx) error {
		q, err := parseWindowQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		mm, err := db.QueryMinMax(c.UserContext(), q.Source, q.From, q.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no temperature data for requested source")
			}
			logging.Error("failed to get temperature min/max", "source", q.Source, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch temperature min/max")
		}
		return c.JSON(mm)
	})

	v1.Get("/temperature/minmax/compare", func(c *fiber.Ctx) error {
		q, err := parseWindowQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		mm, err := db.QueryTwoWindowMinMax(c.UserContext(), q.Source, q.From, q.To)
		if err != nil {
			logging.Error("failed to compare temperature min/max", "source", q.Source, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch temperature min/max")
		}
		return c.JSON(mm)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		q, err := parseWindowQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := db.QueryForecast(c.UserContext(), q.Source, q.From, q.To)
		if err != nil {
			logging.Error("failed to get forecast", "source", q.Source, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
		}
		return c.JSON(forecast)
	})
}

// windowQuery holds the query parameters shared by every window endpoint.
type windowQuery struct {
	Source string    `validate:"required"`
	From   time.Time `validate:"required"`
	To     time.Time `validate:"required,gtefield=From"`
}

func parseWindowQuery(c *fiber.Ctx) (windowQuery, error) {
	var q windowQuery
	q.Source = c.Query("source")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return q, errors.New("from and to query parameters are required")
	}

	var err error
	if q.From, err = parseTime(fromStr); err != nil {
		return q, err
	}
	if q.To, err = parseTime(toStr); err != nil {
		return q, err
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// logQuery holds the parameters of a pushed sensor reading.
type logQuery struct {
	ID   string   `validate:"required"`
	Temp *float64 `validate:"required"`
	Hum  *int     `validate:"required,min=0,max=100"`
}

func parseLogQuery(c *fiber.Ctx) (logQuery, error) {
	q := logQuery{ID: c.Query("id")}

	if v := c.Query("temp"); v != "" {
		temp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, errors.New("invalid temp; expected a number")
		}
		q.Temp = &temp
	}
	if v := c.Query("hum"); v != "" {
		hum, err := strconv.Atoi(v)
		if err != nil {
			return q, errors.New("invalid hum; expected an integer percentage")
		}
		q.Hum = &hum
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
