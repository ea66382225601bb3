package weather

import (
	"context"
	"time"
)

// SensorReader abstracts a single temperature sensor endpoint.
type SensorReader interface {
	Name() string
	Read(ctx context.Context) (float64, error)
}

// ForecastProvider abstracts an external forecast source (e.g. SMHI).
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, asOf time.Time) ([]ForecastPoint, error)
}

// Store is the write-side contract the collection loops need from the time-series store.
type Store interface {
	InsertObservation(ctx context.Context, source string, temperature float64, humidity *int, perceived *float64) error
	UpsertForecasts(ctx context.Context, source string, points []ForecastPoint) error
	QueryLastWindComponents(ctx context.Context, source string, asOf time.Time) (WindComponents, error)
	Truncate(ctx context.Context, maxAgeInDays int) int64
}
