package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/temperature-history/internal/logging"
	"github.com/i474232898/temperature-history/internal/weather"
)

// Loops describes the background loops to run. A nil component disables its loop.
type Loops struct {
	Poller       *weather.SensorPoller
	PollInterval time.Duration

	Ingester         *weather.ForecastIngester
	ForecastInterval time.Duration

	Sweeper           *weather.RetentionSweeper
	RetentionInterval time.Duration
}

// Scheduler drives the collection and retention loops. Every job runs in
// singleton mode, so a slow cycle delays the next one instead of overlapping it.
type Scheduler struct {
	scheduler *gocron.Scheduler
	loops     Loops
	ctx       context.Context
	cancel    context.CancelFunc
	now       func() time.Time
}

// New creates a new Scheduler.
func New(loops Loops) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		loops:     loops,
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
}

// Start schedules the configured loops and starts the underlying scheduler.
// Each loop runs once immediately.
func (s *Scheduler) Start() error {
	if s.loops.Poller != nil {
		if err := s.every("sensor-poll", s.loops.PollInterval, s.loops.Poller.Cycle()); err != nil {
			return err
		}
	}

	if s.loops.Ingester != nil {
		ingester := s.loops.Ingester
		err := s.every("forecast-ingest", s.loops.ForecastInterval, func(ctx context.Context) {
			if err := ingester.Ingest(ctx, s.now().UTC()); err != nil {
				logging.Error("forecast ingestion failed, skipping cycle", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	if s.loops.Sweeper != nil && s.loops.Sweeper.Enabled() {
		if err := s.every("retention-sweep", s.loops.RetentionInterval, s.loops.Sweeper.Sweep); err != nil {
			return err
		}
	}

	if len(s.scheduler.Jobs()) == 0 {
		logging.Warn("scheduler: no loops configured; nothing to schedule")
		return nil
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) every(name string, interval time.Duration, run func(ctx context.Context)) error {
	_, err := s.scheduler.Every(interval).Tag(name).SingletonMode().Do(func() {
		start := time.Now()
		logging.Debug("scheduler: running job", "job", name)
		run(s.ctx)
		logging.Debug("scheduler: job finished", "job", name, "duration", time.Since(start).Truncate(time.Millisecond).String())
	})
	if err != nil {
		return err
	}
	logging.Info("scheduler: job scheduled", "job", name, "interval", interval.String())
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.cancel()
}
