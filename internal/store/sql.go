package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/i474232898/temperature-history/internal/logging"
	"github.com/i474232898/temperature-history/internal/metrics"
	"github.com/i474232898/temperature-history/internal/weather"
)

var (
	// ErrNotFound is returned when a source has no data to answer a query.
	ErrNotFound = weather.ErrNoData

	errUnknownDriver = errors.New("unknown database driver")
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	windLookback = 2 * time.Hour
	day          = 24 * time.Hour
)

// Config selects the database backing the store.
type Config struct {
	Driver string
	DSN    string
}

// SQLStore is the relational time-series store. Every operation holds one
// store-wide mutex for its whole duration.
type SQLStore struct {
	mu  sync.Mutex
	db  *gorm.DB
	now func() time.Time
}

var _ weather.Store = (*SQLStore)(nil)

// Open connects to the configured database and creates the weather table if needed.
func Open(cfg Config) (*SQLStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownDriver, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.Driver != DriverPostgres {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&weatherRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate weather table: %w", err)
	}

	return &SQLStore{db: db, now: time.Now}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// acquire takes the store lock and returns its release, which also records the
// operation's duration.
func (s *SQLStore) acquire(op string) func() {
	start := time.Now()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		metrics.StoreQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// InsertObservation appends a sensor reading timestamped now. Rows are keyed
// by (source, second), so a second insert for a source within the same second
// fails with a constraint error.
func (s *SQLStore) InsertObservation(ctx context.Context, source string, temperature float64, humidity *int, perceived *float64) error {
	defer s.acquire("insert_observation")()

	rec := weatherRecord{
		Source:               source,
		Datetime:             s.now().UTC().Unix(),
		Temperature:          &temperature,
		PerceivedTemperature: perceived,
		Humidity:             humidity,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert observation for %s: %w", source, err)
	}
	return nil
}

// UpsertForecast stores a single forecast point, replacing any earlier
// forecast for the same source and instant.
func (s *SQLStore) UpsertForecast(ctx context.Context, source string, point weather.ForecastPoint) error {
	return s.UpsertForecasts(ctx, source, []weather.ForecastPoint{point})
}

// UpsertForecasts stores a batch of forecast points in one statement, so a
// failure leaves no partial batch behind. Within the batch the last point for
// an instant wins.
func (s *SQLStore) UpsertForecasts(ctx context.Context, source string, points []weather.ForecastPoint) error {
	if len(points) == 0 {
		return nil
	}

	records := make([]weatherRecord, 0, len(points))
	index := make(map[int64]int, len(points))
	for _, p := range points {
		rec := forecastRecord(source, p)
		if i, ok := index[rec.Datetime]; ok {
			records[i] = rec
			continue
		}
		index[rec.Datetime] = len(records)
		records = append(records, rec)
	}

	defer s.acquire("upsert_forecast")()

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "source"},
				{Name: "datetime"},
			},
			DoUpdates: clause.AssignmentColumns(forecastColumns),
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("upsert %d forecast points for %s: %w", len(records), source, err)
	}
	return nil
}

// QueryHistory returns the temperatures of source in [from, to), oldest first.
// An empty window yields the last known temperature placed at from; a source
// without any data yields an empty series.
func (s *SQLStore) QueryHistory(ctx context.Context, source string, from, to time.Time) ([]weather.DataPoint, error) {
	defer s.acquire("query_history")()

	var rows []weatherRecord
	err := s.db.WithContext(ctx).
		Where("source = ? AND datetime >= ? AND datetime < ? AND temperature IS NOT NULL", source, ceilUnix(from), ceilUnix(to)).
		Order("datetime").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", source, err)
	}

	points := make([]weather.DataPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, weather.DataPoint{X: r.time(), Y: *r.Temperature})
	}
	if len(points) > 0 {
		return points, nil
	}

	last, err := s.lastTemperature(ctx, source)
	if errors.Is(err, ErrNotFound) {
		return points, nil
	}
	if err != nil {
		return nil, err
	}
	return append(points, weather.DataPoint{X: from, Y: last}), nil
}

// QueryMinMax returns the temperature extremes of source in [from, to), falling
// back to the last known temperature for an empty window.
func (s *SQLStore) QueryMinMax(ctx context.Context, source string, from, to time.Time) (weather.MinMax, error) {
	defer s.acquire("query_minmax")()

	agg, err := s.aggregate(ctx, source, from, to)
	if err != nil {
		return weather.MinMax{}, err
	}
	if agg.Min != nil && agg.Max != nil {
		return weather.MinMax{Min: *agg.Min, Max: *agg.Max}, nil
	}

	last, err := s.lastTemperature(ctx, source)
	if err != nil {
		return weather.MinMax{}, err
	}
	return weather.MinMax{Min: last, Max: last}, nil
}

// QueryTwoWindowMinMax aggregates [from, to) and the same window one day
// earlier. Empty halves report zero; there is no last-value fallback here.
func (s *SQLStore) QueryTwoWindowMinMax(ctx context.Context, source string, from, to time.Time) (weather.TwoWindowMinMax, error) {
	defer s.acquire("query_two_window_minmax")()

	prev, err := s.aggregate(ctx, source, from.Add(-day), to.Add(-day))
	if err != nil {
		return weather.TwoWindowMinMax{}, err
	}
	cur, err := s.aggregate(ctx, source, from, to)
	if err != nil {
		return weather.TwoWindowMinMax{}, err
	}

	return weather.TwoWindowMinMax{
		YesterdayMin: valueOrZero(prev.Min),
		YesterdayMax: valueOrZero(prev.Max),
		TodayMin:     valueOrZero(cur.Min),
		TodayMax:     valueOrZero(cur.Max),
	}, nil
}

// QueryForecast returns the stored forecast rows of source in [from, to).
func (s *SQLStore) QueryForecast(ctx context.Context, source string, from, to time.Time) ([]weather.ForecastRecord, error) {
	defer s.acquire("query_forecast")()

	var rows []weatherRecord
	err := s.db.WithContext(ctx).
		Where("source = ? AND datetime >= ? AND datetime < ?", source, ceilUnix(from), ceilUnix(to)).
		Order("datetime").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query forecast for %s: %w", source, err)
	}

	forecast := make([]weather.ForecastRecord, 0, len(rows))
	for _, r := range rows {
		forecast = append(forecast, r.toForecast())
	}
	return forecast, nil
}

// QueryLastWindComponents returns wind speed and humidity of the latest record
// of source in (asOf-2h, asOf].
func (s *SQLStore) QueryLastWindComponents(ctx context.Context, source string, asOf time.Time) (weather.WindComponents, error) {
	defer s.acquire("query_last_wind")()

	var rec weatherRecord
	err := s.db.WithContext(ctx).
		Where("source = ? AND datetime > ? AND datetime <= ?", source, asOf.Add(-windLookback).Unix(), asOf.Unix()).
		Order("datetime DESC").
		Limit(1).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weather.WindComponents{}, ErrNotFound
	}
	if err != nil {
		return weather.WindComponents{}, fmt.Errorf("query wind components for %s: %w", source, err)
	}

	return weather.WindComponents{
		Time:      rec.time(),
		WindSpeed: rec.WindSpeed,
		Humidity:  rec.Humidity,
	}, nil
}

// Truncate deletes every record older than maxAgeInDays and returns how many
// rows went. Failures are logged only.
func (s *SQLStore) Truncate(ctx context.Context, maxAgeInDays int) int64 {
	defer s.acquire("truncate")()

	cutoff := ceilUnix(s.now().Add(-time.Duration(maxAgeInDays) * day))
	res := s.db.WithContext(ctx).Where("datetime < ?", cutoff).Delete(&weatherRecord{})
	if res.Error != nil {
		metrics.RetentionSweepsTotal.WithLabelValues("failure").Inc()
		logging.Error("failed to truncate weather table", "cutoff", cutoff, "error", res.Error)
		return 0
	}

	metrics.RetentionSweepsTotal.WithLabelValues("success").Inc()
	return res.RowsAffected
}

type minMaxRow struct {
	Min *float64
	Max *float64
}

// aggregate must be called with the lock held.
func (s *SQLStore) aggregate(ctx context.Context, source string, from, to time.Time) (minMaxRow, error) {
	var agg minMaxRow
	err := s.db.WithContext(ctx).
		Model(&weatherRecord{}).
		Select("MIN(temperature) AS min, MAX(temperature) AS max").
		Where("source = ? AND datetime >= ? AND datetime < ?", source, ceilUnix(from), ceilUnix(to)).
		Scan(&agg).Error
	if err != nil {
		return minMaxRow{}, fmt.Errorf("aggregate temperatures for %s: %w", source, err)
	}
	return agg, nil
}

// lastTemperature must be called with the lock held.
func (s *SQLStore) lastTemperature(ctx context.Context, source string) (float64, error) {
	var rec weatherRecord
	err := s.db.WithContext(ctx).
		Where("source = ? AND temperature IS NOT NULL", source).
		Order("datetime DESC").
		Limit(1).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query last temperature for %s: %w", source, err)
	}
	return *rec.Temperature, nil
}

// ceilUnix converts a half-open bound to whole seconds, rounding up so that
// no row before t falls inside [t, ...).
func ceilUnix(t time.Time) int64 {
	sec := t.Unix()
	if t.Nanosecond() > 0 {
		sec++
	}
	return sec
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
