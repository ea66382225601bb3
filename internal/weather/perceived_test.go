package weather

import (
	"math"
	"testing"
)

func TestPerceived(t *testing.T) {
	tests := []struct {
		name     string
		temp     float64
		humidity float64
		wind     float64
		want     float64
	}{
		{"cold and windy uses wind chill", -10, 50, 10, -20.3},
		{"hot and calm uses full heat index", 35, 80, 0.5, 56.5},
		{"mild uses simple heat index", 20, 50, 0, 19.4},
		{"cold but calm uses simple heat index", 5, 50, 1, 2.9},
		{"humid adjustment", 28, 90, 0, 34.0},
		{"dry adjustment", 30, 10, 0, 27.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Perceived(tt.temp, tt.humidity, tt.wind)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Perceived(%v, %v, %v) = %v, want %v", tt.temp, tt.humidity, tt.wind, got, tt.want)
			}
		})
	}
}

func TestPerceived_BranchSelection(t *testing.T) {
	// -10°C is 14°F and 10 m/s is ~22.4 mph: wind chill territory.
	chill := Perceived(-10, 50, 10)
	if want := fahrenheitToCelsius(windChill(14, mpsToMph(10))); chill != want {
		t.Errorf("expected wind chill result %v, got %v", want, chill)
	}
	if hi := fahrenheitToCelsius(heatIndex(14, 50)); chill == hi {
		t.Errorf("cold windy input should not follow the heat index branch")
	}

	// 35°C is 95°F: never wind chill, whatever the wind.
	hot := Perceived(35, 80, 20)
	if want := fahrenheitToCelsius(heatIndex(95, 80)); hot != want {
		t.Errorf("expected heat index result %v, got %v", want, hot)
	}
}

func TestPerceived_AlwaysFinite(t *testing.T) {
	inputs := [][3]float64{
		{-80, 0, 0},
		{-40, 100, 60},
		{60, 100, 0},
		{0, -20, -5},
		{45, 0, 0},
	}
	for _, in := range inputs {
		got := Perceived(in[0], in[1], in[2])
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("Perceived(%v, %v, %v) = %v, want a finite value", in[0], in[1], in[2], got)
		}
	}
}
