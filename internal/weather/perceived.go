package weather

import (
	"math"

	"github.com/i474232898/temperature-history/internal/common"
)

// Perceived returns the perceived temperature in Celsius, rounded to one decimal.
// Wind chill applies at or below 50°F with wind above 3 mph; the NOAA heat
// index applies otherwise.
func Perceived(tempC, humidityPct, windSpeedMps float64) float64 {
	tempF := celsiusToFahrenheit(tempC)
	mph := mpsToMph(windSpeedMps)

	if tempF <= 50 && mph > 3 {
		return fahrenheitToCelsius(windChill(tempF, mph))
	}
	return fahrenheitToCelsius(heatIndex(tempF, humidityPct))
}

// https://www.weather.gov/safety/cold-wind-chill-chart
func windChill(tempF, mph float64) float64 {
	v := math.Pow(mph, 0.16)
	return 35.74 + 0.6215*tempF - 35.75*v + 0.4275*tempF*v
}

// https://www.wpc.ncep.noaa.gov/html/heatindex_equation.shtml
func heatIndex(tempF, rh float64) float64 {
	hi := 0.5 * (tempF + 61.0 + (tempF-68.0)*1.2 + rh*0.094)
	if hi < 80 {
		return hi
	}

	hi = -42.379 +
		2.04901523*tempF +
		10.14333127*rh -
		0.22475541*tempF*rh -
		0.00683783*tempF*tempF -
		0.05481717*rh*rh +
		0.00122874*tempF*tempF*rh +
		0.00085282*tempF*rh*rh -
		0.00000199*tempF*tempF*rh*rh

	switch {
	case rh < 13 && tempF >= 80 && tempF <= 112:
		hi -= ((13 - rh) / 4) * math.Sqrt((17-math.Abs(tempF-95))/17)
	case rh > 85 && tempF >= 80 && tempF <= 87:
		hi += ((rh - 85) / 10) * ((87 - tempF) / 5)
	}
	return hi
}

func celsiusToFahrenheit(c float64) float64 {
	return c*1.8 + 32
}

func fahrenheitToCelsius(f float64) float64 {
	return common.RoundTo((f-32)/1.8, 1)
}

func mpsToMph(mps float64) float64 {
	return mps * 3.6 / 1.609344
}
