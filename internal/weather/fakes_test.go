package weather

import (
	"context"
	"sync"
	"time"
)

type observation struct {
	source      string
	temperature float64
	perceived   *float64
}

// fakeStore records writes in memory.
type fakeStore struct {
	mu           sync.Mutex
	observations []observation
	forecasts    map[string][]ForecastPoint
	truncations  []int

	insertErr error
	upsertErr error
	wind      WindComponents
	windErr   error
	windCalls int
	deleted   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		forecasts: make(map[string][]ForecastPoint),
		windErr:   ErrNoData,
	}
}

func (s *fakeStore) InsertObservation(ctx context.Context, source string, temperature float64, humidity *int, perceived *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.observations = append(s.observations, observation{source: source, temperature: temperature, perceived: perceived})
	return nil
}

func (s *fakeStore) UpsertForecasts(ctx context.Context, source string, points []ForecastPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.forecasts[source] = append(s.forecasts[source], points...)
	return nil
}

func (s *fakeStore) QueryLastWindComponents(ctx context.Context, source string, asOf time.Time) (WindComponents, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windCalls++
	return s.wind, s.windErr
}

func (s *fakeStore) Truncate(ctx context.Context, maxAgeInDays int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.truncations = append(s.truncations, maxAgeInDays)
	return s.deleted
}

func (s *fakeStore) written() []observation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]observation(nil), s.observations...)
}

// fakeReader returns a fixed value or error, optionally after a delay.
type fakeReader struct {
	name  string
	value float64
	err   error
	delay time.Duration
}

func (r *fakeReader) Name() string {
	return r.name
}

func (r *fakeReader) Read(ctx context.Context) (float64, error) {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return r.value, r.err
}

// fakeProvider returns canned forecast points.
type fakeProvider struct {
	points []ForecastPoint
	err    error
	asOf   time.Time
}

func (p *fakeProvider) Name() string {
	return "fake"
}

func (p *fakeProvider) FetchForecast(ctx context.Context, asOf time.Time) ([]ForecastPoint, error) {
	p.asOf = asOf
	return p.points, p.err
}

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}
