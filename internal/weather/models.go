package weather

import (
	"errors"
	"time"
)

// ErrNoData is returned when a source has no usable record for a query.
var ErrNoData = errors.New("no weather data for source")

// DataPoint is one point of a temperature history series.
type DataPoint struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

// MinMax holds the temperature extremes of a window.
type MinMax struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TwoWindowMinMax compares a window with the same window one day earlier.
type TwoWindowMinMax struct {
	YesterdayMin float64 `json:"yesterday_min"`
	YesterdayMax float64 `json:"yesterday_max"`
	TodayMin     float64 `json:"today_min"`
	TodayMax     float64 `json:"today_max"`
}

// ForecastPoint is a single forecasted instant as delivered by a provider.
// Optional fields stay nil when the provider omits them.
type ForecastPoint struct {
	Time        time.Time
	Temperature float64
	WindSpeed   *float64
	Humidity    *int
	LCCMean     *int
	MCCMean     *int
	HCCMean     *int
	SymbolCode  *int
}

// ForecastRecord is a stored forecast row as returned by forecast queries.
type ForecastRecord struct {
	Source               string    `json:"source"`
	Time                 time.Time `json:"time"`
	Temperature          *float64  `json:"temperature"`
	PerceivedTemperature *float64  `json:"perceived_temperature"`
	Humidity             *int      `json:"humidity"`
	WindSpeed            *float64  `json:"wind_speed"`
	LCCMean              *int      `json:"lcc_mean"`
	MCCMean              *int      `json:"mcc_mean"`
	HCCMean              *int      `json:"hcc_mean"`
	SymbolCode           *int      `json:"symbol_code"`
}

// WindComponents is the wind/humidity context of the latest record near an instant.
type WindComponents struct {
	Time      time.Time
	WindSpeed *float64
	Humidity  *int
}
