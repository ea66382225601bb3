package store

import (
	"time"

	"github.com/i474232898/temperature-history/internal/weather"
)

// weatherRecord is the row model of the weather table. Nullable columns are
// pointers so that "absent" never reads back as zero.
type weatherRecord struct {
	Source               string   `gorm:"column:source;primaryKey;not null"`
	Datetime             int64    `gorm:"column:datetime;primaryKey;autoIncrement:false;not null"`
	Temperature          *float64 `gorm:"column:temperature"`
	PerceivedTemperature *float64 `gorm:"column:perceived_temperature"`
	Humidity             *int     `gorm:"column:humidity"`
	WindSpeed            *float64 `gorm:"column:wind_speed"`
	LCCMean              *int     `gorm:"column:lcc_mean"`
	MCCMean              *int     `gorm:"column:mcc_mean"`
	HCCMean              *int     `gorm:"column:hcc_mean"`
	SymbolCode           *int     `gorm:"column:symbol_code"`
}

// TableName specifies the table name for GORM
func (weatherRecord) TableName() string {
	return "weather"
}

// forecastColumns are overwritten when a forecast is re-published for an instant.
var forecastColumns = []string{
	"temperature",
	"humidity",
	"wind_speed",
	"lcc_mean",
	"mcc_mean",
	"hcc_mean",
	"symbol_code",
}

func forecastRecord(source string, p weather.ForecastPoint) weatherRecord {
	temp := p.Temperature
	return weatherRecord{
		Source:      source,
		Datetime:    p.Time.Unix(),
		Temperature: &temp,
		Humidity:    p.Humidity,
		WindSpeed:   p.WindSpeed,
		LCCMean:     p.LCCMean,
		MCCMean:     p.MCCMean,
		HCCMean:     p.HCCMean,
		SymbolCode:  p.SymbolCode,
	}
}

func (r weatherRecord) time() time.Time {
	return time.Unix(r.Datetime, 0).UTC()
}

func (r weatherRecord) toForecast() weather.ForecastRecord {
	return weather.ForecastRecord{
		Source:               r.Source,
		Time:                 r.time(),
		Temperature:          r.Temperature,
		PerceivedTemperature: r.PerceivedTemperature,
		Humidity:             r.Humidity,
		WindSpeed:            r.WindSpeed,
		LCCMean:              r.LCCMean,
		MCCMean:              r.MCCMean,
		HCCMean:              r.HCCMean,
		SymbolCode:           r.SymbolCode,
	}
}
