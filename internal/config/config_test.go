package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"APP_ENV", "PORT", "DB_DRIVER", "DB_DSN",
	"RETENTION_MAX_AGE_DAYS", "RETENTION_INTERVAL",
	"SENSOR_NAME", "SENSOR_URLS", "POLL_INTERVAL",
	"FORECAST_NAME", "FORECAST_LAT", "FORECAST_LON", "FORECAST_BASE_URL", "FORECAST_INTERVAL",
	"HTTP_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.DBDriver != "sqlite" || cfg.DBDSN != "temperature.db" {
		t.Errorf("unexpected server/store defaults: %+v", cfg)
	}
	if cfg.RetentionMaxAgeDays != 30 || cfg.RetentionInterval != time.Hour {
		t.Errorf("unexpected retention defaults: %d / %v", cfg.RetentionMaxAgeDays, cfg.RetentionInterval)
	}
	if cfg.PollInterval != 60*time.Second || cfg.ForecastInterval != time.Hour || cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("unexpected interval defaults: %v / %v / %v", cfg.PollInterval, cfg.ForecastInterval, cfg.HTTPTimeout)
	}
	if len(cfg.SensorURLs) != 0 {
		t.Errorf("expected no sensors, got %v", cfg.SensorURLs)
	}
	if cfg.ForecastEnabled() {
		t.Error("expected forecasting to be off without coordinates")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENSOR_URLS", " http://10.0.0.5/temp , ,http://10.0.0.6/temp")
	t.Setenv("SENSOR_NAME", "balcony")
	t.Setenv("POLL_INTERVAL", "15s")
	t.Setenv("FORECAST_LAT", "59.3293")
	t.Setenv("FORECAST_LON", "18.0686")
	t.Setenv("RETENTION_MAX_AGE_DAYS", "0")
	t.Setenv("DB_DRIVER", "postgres")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"http://10.0.0.5/temp", "http://10.0.0.6/temp"}
	if !reflect.DeepEqual(cfg.SensorURLs, want) {
		t.Errorf("expected sensors %v, got %v", want, cfg.SensorURLs)
	}
	if cfg.SensorName != "balcony" || cfg.PollInterval != 15*time.Second || cfg.DBDriver != "postgres" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.ForecastEnabled() || *cfg.ForecastLat != 59.3293 || *cfg.ForecastLon != 18.0686 {
		t.Errorf("unexpected forecast location %v/%v", cfg.ForecastLat, cfg.ForecastLon)
	}
	if cfg.RetentionMaxAgeDays != 0 {
		t.Errorf("expected retention disabled, got %d", cfg.RetentionMaxAgeDays)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"RETENTION_MAX_AGE_DAYS", "thirty", "RETENTION_MAX_AGE_DAYS"},
		{"POLL_INTERVAL", "often", "POLL_INTERVAL"},
		{"POLL_INTERVAL", "-1s", "must be positive"},
		{"FORECAST_LAT", "north", "FORECAST_LAT"},
		{"RATE_LIMIT_RPS", "fast", "RATE_LIMIT_RPS"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_LatitudeWithoutLongitude(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORECAST_LAT", "59.3293")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when only one coordinate is set")
	}
}
