package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/temperature-history/internal/api/http"
	"github.com/i474232898/temperature-history/internal/config"
	"github.com/i474232898/temperature-history/internal/logging"
	"github.com/i474232898/temperature-history/internal/scheduler"
	"github.com/i474232898/temperature-history/internal/store"
	"github.com/i474232898/temperature-history/internal/weather"
	"github.com/i474232898/temperature-history/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		logging.Fatal("failed to initialize logger", "error", err)
	}
	defer logging.Close()

	// Persistent store shared by every loop and the API.
	db, err := store.Open(store.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		logging.Fatal("failed to open store", "driver", cfg.DBDriver, "error", err)
	}
	defer db.Close()

	// Shared HTTP client for outbound sensor and provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	loops := scheduler.Loops{
		PollInterval:      cfg.PollInterval,
		ForecastInterval:  cfg.ForecastInterval,
		RetentionInterval: cfg.RetentionInterval,
		Sweeper:           weather.NewRetentionSweeper(db, cfg.RetentionMaxAgeDays),
	}

	if cfg.ForecastEnabled() {
		smhi := providers.NewSMHIClient(httpClient, cfg.ForecastBaseURL, *cfg.ForecastLat, *cfg.ForecastLon)
		loops.Ingester = weather.NewForecastIngester(db, smhi, cfg.ForecastName)
	} else {
		logging.Info("forecast location not configured; forecast ingestion disabled")
	}

	if len(cfg.SensorURLs) > 0 {
		readers := make([]weather.SensorReader, 0, len(cfg.SensorURLs))
		for _, u := range cfg.SensorURLs {
			readers = append(readers, providers.NewSensorClient(httpClient, u))
		}

		var opts []weather.PollerOption
		if cfg.ForecastEnabled() {
			opts = append(opts, weather.WithWindSource(cfg.ForecastName))
		}
		loops.Poller = weather.NewSensorPoller(db, readers, cfg.SensorName, opts...)
	} else {
		logging.Info("no sensor urls configured; sensor polling disabled")
	}

	// Scheduler that drives collection and retention.
	sched := scheduler.New(loops)
	if err := sched.Start(); err != nil {
		logging.Fatal("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(db, httpapi.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	listenErr := make(chan error, 1)
	go func() {
		logging.Info("server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		logging.Fatal("failed to serve http", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logging.Error("error during shutdown", "error", err)
	}
}
