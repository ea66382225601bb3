package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered against the default registry.
var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temphist_http_requests_total",
			Help: "Total HTTP requests processed by route, method, and status code",
		},
		[]string{"route", "method", "status_code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "temphist_http_request_duration_seconds",
			Help:    "HTTP request latency distribution in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"route", "method"},
	)

	// Store
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "temphist_store_query_duration_seconds",
			Help:    "Store operation time in seconds, lock wait included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	// Collection
	SensorReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temphist_sensor_reads_total",
			Help: "Sensor endpoint reads by outcome",
		},
		[]string{"outcome"},
	)
	ObservationsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "temphist_observations_written_total",
			Help: "Observation rows written by the sensor poller",
		},
	)
	ObservationsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "temphist_observations_skipped_total",
			Help: "Poll cycles whose aggregated reading equalled the last written value",
		},
	)
	ForecastIngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temphist_forecast_ingests_total",
			Help: "Forecast ingestion cycles by outcome",
		},
		[]string{"outcome"},
	)
	ForecastPointsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "temphist_forecast_points_upserted_total",
			Help: "Forecast points upserted into the store",
		},
	)
	RetentionSweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temphist_retention_sweeps_total",
			Help: "Retention sweeps by outcome",
		},
		[]string{"outcome"},
	)
)
