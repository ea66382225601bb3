package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/i474232898/temperature-history/internal/logging"
	"github.com/i474232898/temperature-history/internal/metrics"
)

// ForecastIngester copies a provider's forecast into the store, replacing
// any earlier forecast for the same instants.
type ForecastIngester struct {
	store    Store
	provider ForecastProvider
	source   string
}

// NewForecastIngester creates an ingester storing forecasts under source.
func NewForecastIngester(store Store, provider ForecastProvider, source string) *ForecastIngester {
	return &ForecastIngester{
		store:    store,
		provider: provider,
		source:   source,
	}
}

// Ingest fetches the forecast valid around asOf and upserts every point.
// A provider failure writes nothing.
func (i *ForecastIngester) Ingest(ctx context.Context, asOf time.Time) error {
	start := time.Now()

	points, err := i.provider.FetchForecast(ctx, asOf)
	if err != nil {
		metrics.ForecastIngestsTotal.WithLabelValues("fetch_failed").Inc()
		return fmt.Errorf("fetch forecast from %s: %w", i.provider.Name(), err)
	}

	if err := i.store.UpsertForecasts(ctx, i.source, points); err != nil {
		metrics.ForecastIngestsTotal.WithLabelValues("store_failed").Inc()
		return fmt.Errorf("store forecast for %s: %w", i.source, err)
	}

	metrics.ForecastIngestsTotal.WithLabelValues("success").Inc()
	metrics.ForecastPointsUpserted.Add(float64(len(points)))
	logging.Info("forecast ingested",
		"source", i.source,
		"provider", i.provider.Name(),
		"points", len(points),
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
	)
	return nil
}
