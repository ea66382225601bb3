package weather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/i474232898/temperature-history/internal/store"
	"github.com/i474232898/temperature-history/internal/weather"
	"github.com/i474232898/temperature-history/internal/weather/providers"
)

// TestSensorToHistory runs two poll cycles against a steady sensor and checks
// that exactly one observation reaches the history.
func TestSensorToHistory(t *testing.T) {
	sensor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": 20.0}`))
	}))
	defer sensor.Close()

	s, err := store.Open(store.Config{Driver: store.DriverSQLite, DSN: filepath.Join(t.TempDir(), "weather.db")})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	client := &http.Client{Timeout: time.Second}
	poller := weather.NewSensorPoller(s, []weather.SensorReader{providers.NewSensorClient(client, sensor.URL)}, "outdoor")

	ctx := context.Background()
	start := time.Now().Add(-time.Minute)
	cycle := poller.Cycle()
	cycle(ctx)
	cycle(ctx)

	history, err := s.QueryHistory(ctx, "outdoor", start, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].Y != 20.0 {
		t.Fatalf("expected a single 20.0 observation, got %+v", history)
	}
}
