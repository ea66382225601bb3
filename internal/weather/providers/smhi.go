package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/temperature-history/internal/common"
	"github.com/i474232898/temperature-history/internal/weather"
)

// DefaultSMHIBaseURL is the SMHI open data forecast host.
const DefaultSMHIBaseURL = "https://opendata-download-metfcst.smhi.se"

// ErrNoForecast is returned when the provider answered but had nothing for the
// requested date.
var ErrNoForecast = errors.New("no forecast for requested date")

// SMHIClient implements weather.ForecastProvider for the SMHI point forecast.
type SMHIClient struct {
	name    string
	baseURL string
	lat     float64
	lon     float64
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewSMHIClient creates a forecast client for the given position. SMHI accepts
// at most four decimals, so coordinates are rounded accordingly.
func NewSMHIClient(client *http.Client, baseURL string, lat, lon float64) *SMHIClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultSMHIBaseURL
	}

	return &SMHIClient{
		name:    "smhi",
		baseURL: strings.TrimRight(baseURL, "/"),
		lat:     common.RoundTo(lat, 4),
		lon:     common.RoundTo(lon, 4),
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("smhi"),
	}
}

func (c *SMHIClient) Name() string {
	return c.name
}

func (c *SMHIClient) forecastURL() string {
	return fmt.Sprintf("%s/api/category/snow1g/version/1/geotype/point/lon/%.4f/lat/%.4f/data.json",
		c.baseURL, c.lon, c.lat)
}

// FetchForecast returns the forecast points falling on asOf's UTC day or the
// day after.
func (c *SMHIClient) FetchForecast(ctx context.Context, asOf time.Time) ([]weather.ForecastPoint, error) {
	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, getRequest(c.forecastURL()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		TimeSeries []struct {
			Time time.Time `json:"time"`
			Data struct {
				AirTemperature   *float64 `json:"air_temperature"`
				WindSpeed        *float64 `json:"wind_speed"`
				RelativeHumidity *float64 `json:"relative_humidity"`
				LowCloud         *float64 `json:"low_type_cloud_area_fraction"`
				MediumCloud      *float64 `json:"medium_type_cloud_area_fraction"`
				HighCloud        *float64 `json:"high_type_cloud_area_fraction"`
				SymbolCode       *float64 `json:"symbol_code"`
			} `json:"data"`
		} `json:"timeSeries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	date := utcDay(asOf)
	nextDate := date.AddDate(0, 0, 1)

	var points []weather.ForecastPoint
	for _, ts := range payload.TimeSeries {
		d := utcDay(ts.Time)
		if !d.Equal(date) && !d.Equal(nextDate) {
			continue
		}
		if ts.Data.AirTemperature == nil {
			continue
		}

		points = append(points, weather.ForecastPoint{
			Time:        ts.Time.UTC(),
			Temperature: *ts.Data.AirTemperature,
			WindSpeed:   ts.Data.WindSpeed,
			Humidity:    intPtr(ts.Data.RelativeHumidity),
			LCCMean:     intPtr(ts.Data.LowCloud),
			MCCMean:     intPtr(ts.Data.MediumCloud),
			HCCMean:     intPtr(ts.Data.HighCloud),
			SymbolCode:  intPtr(ts.Data.SymbolCode),
		})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoForecast, date.Format("2006-01-02"))
	}
	return points, nil
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
