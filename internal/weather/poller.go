package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/i474232898/temperature-history/internal/logging"
	"github.com/i474232898/temperature-history/internal/metrics"
)

// SensorPoller reads a set of redundant sensors and records their coldest
// reading as observations of a single source.
type SensorPoller struct {
	store      Store
	readers    []SensorReader
	source     string
	windSource string
	now        func() time.Time
}

// PollerOption customizes a SensorPoller.
type PollerOption func(*SensorPoller)

// WithWindSource enables perceived temperature, using the wind and humidity
// of the latest record of source (normally the forecast provider).
func WithWindSource(source string) PollerOption {
	return func(p *SensorPoller) {
		p.windSource = source
	}
}

// NewSensorPoller creates a poller writing observations under source.
func NewSensorPoller(store Store, readers []SensorReader, source string, opts ...PollerOption) *SensorPoller {
	p := &SensorPoller{
		store:   store,
		readers: readers,
		source:  source,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Cycle returns the body of one polling loop. The last written value is
// owned by the returned closure, so each loop dedups independently and a
// fresh Cycle always writes its first reading.
func (p *SensorPoller) Cycle() func(ctx context.Context) {
	var (
		last    float64
		written bool
	)

	return func(ctx context.Context) {
		value, ok := p.readAll(ctx)
		if !ok {
			logging.Warn("no sensor produced a reading this cycle", "source", p.source, "sensors", len(p.readers))
			return
		}

		if written && value == last {
			metrics.ObservationsSkippedTotal.Inc()
			logging.Debug("reading unchanged, skipping write", "source", p.source, "temperature", value)
			return
		}

		if err := p.write(ctx, value); err != nil {
			logging.Error("failed to store observation", "source", p.source, "temperature", value, "error", err)
			return
		}

		last, written = value, true
		metrics.ObservationsWrittenTotal.Inc()
		logging.Info("observation stored", "source", p.source, "temperature", value)
	}
}

// readAll queries every sensor concurrently and waits for all of them.
// It reports the minimum of the successful readings.
func (p *SensorPoller) readAll(ctx context.Context) (float64, bool) {
	readings := make([]*float64, len(p.readers))

	var g errgroup.Group
	for i, r := range p.readers {
		i, r := i, r
		g.Go(func() error {
			v, err := r.Read(ctx)
			if err != nil {
				metrics.SensorReadsTotal.WithLabelValues("failure").Inc()
				logging.Warn("sensor read failed", "sensor", r.Name(), "error", err)
				return nil
			}
			metrics.SensorReadsTotal.WithLabelValues("success").Inc()
			logging.Debug("sensor reading", "sensor", r.Name(), "temperature", v)
			readings[i] = &v
			return nil
		})
	}
	_ = g.Wait()

	var (
		minimum float64
		found   bool
	)
	for _, v := range readings {
		if v == nil {
			continue
		}
		if !found || *v < minimum {
			minimum = *v
			found = true
		}
	}
	return minimum, found
}

func (p *SensorPoller) write(ctx context.Context, value float64) error {
	var perceived *float64

	if p.windSource != "" {
		wind, err := p.store.QueryLastWindComponents(ctx, p.windSource, p.now())
		switch {
		case err == nil:
			if wind.WindSpeed != nil && wind.Humidity != nil {
				v := Perceived(value, float64(*wind.Humidity), *wind.WindSpeed)
				perceived = &v
			}
		case errors.Is(err, ErrNoData):
			// no recent wind context; store the bare reading
		default:
			return fmt.Errorf("lookup wind components for %s: %w", p.windSource, err)
		}
	}

	return p.store.InsertObservation(ctx, p.source, value, nil, perceived)
}
