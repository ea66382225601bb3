package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/temperature-history/internal/logging"
)

type AppConfig struct {
	AppEnv string
	Port   string

	// Store
	DBDriver string
	DBDSN    string

	// Retention: rows older than RetentionMaxAgeDays are swept every
	// RetentionInterval (0 days = keep everything).
	RetentionMaxAgeDays int
	RetentionInterval   time.Duration

	// Sensors polled as one observation source.
	SensorName   string
	SensorURLs   []string
	PollInterval time.Duration

	// Forecast provider location; forecasting is off without coordinates.
	ForecastName     string
	ForecastLat      *float64
	ForecastLon      *float64
	ForecastBaseURL  string
	ForecastInterval time.Duration

	// Outbound HTTP timeout.
	HTTPTimeout time.Duration

	// Query API limiter.
	RateLimitRPS   float64
	RateLimitBurst int
}

// ForecastEnabled reports whether a forecast location is configured.
func (c *AppConfig) ForecastEnabled() bool {
	return c.ForecastLat != nil && c.ForecastLon != nil
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logging.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.AppEnv = getenvDefault("APP_ENV", "development")
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.DBDriver = getenvDefault("DB_DRIVER", "sqlite")
	cfg.DBDSN = getenvDefault("DB_DSN", "temperature.db")

	if cfg.RetentionMaxAgeDays, err = getenvInt("RETENTION_MAX_AGE_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.RetentionInterval, err = getenvDuration("RETENTION_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	cfg.SensorName = getenvDefault("SENSOR_NAME", "sensor")
	cfg.SensorURLs = splitList(os.Getenv("SENSOR_URLS"))
	if cfg.PollInterval, err = getenvDuration("POLL_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}

	cfg.ForecastName = getenvDefault("FORECAST_NAME", "smhi")
	if cfg.ForecastLat, err = getenvFloatPtr("FORECAST_LAT"); err != nil {
		return nil, err
	}
	if cfg.ForecastLon, err = getenvFloatPtr("FORECAST_LON"); err != nil {
		return nil, err
	}
	if (cfg.ForecastLat == nil) != (cfg.ForecastLon == nil) {
		return nil, fmt.Errorf("FORECAST_LAT and FORECAST_LON must be set together")
	}
	cfg.ForecastBaseURL = os.Getenv("FORECAST_BASE_URL")
	if cfg.ForecastInterval, err = getenvDuration("FORECAST_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.RateLimitRPS, err = getenvFloat("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getenvInt("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvFloatPtr(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
