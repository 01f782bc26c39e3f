package forecast

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Aggregate reduces an hourly series into 24/48/72h windows.
// Snowfall totals are nested prefixes: the 48h total includes the first 24h.
// Statistics for temperature, wind and precipitation cover the first 24 hours.
func Aggregate(s Series) Summary {
	temps := head(s.Temperature, 24)
	winds := head(s.WindSpeed, 24)

	return Summary{
		Snowfall24h: round1(floats.Sum(head(s.Snowfall, 24))),
		Snowfall48h: round1(floats.Sum(head(s.Snowfall, 48))),
		Snowfall72h: round1(floats.Sum(head(s.Snowfall, 72))),
		HourlySnow:  hourlySnow(head(s.Snowfall, 24)),
		Temperature: Temperature{
			Avg: round1(mean(temps)),
			Min: round1(minOf(temps)),
			Max: round1(maxOf(temps)),
		},
		Wind: Wind{
			Avg: round1(mean(winds)),
			Max: round1(maxOf(winds)),
		},
		PrecipProbability: int(roundHalfUp(mean(head(s.PrecipProbability, 24)))),
		PeakWindow:        peakWindow(head(s.Snowfall, 48)),
	}
}

// peakWindow returns nil when no snow is expected in the window.
func peakWindow(snow []float64) *PeakWindow {
	if len(snow) == 0 {
		return nil
	}
	idx := floats.MaxIdx(snow)
	if snow[idx] <= 0 {
		return nil
	}
	return &PeakWindow{StartsIn: idx, Label: PeakLabel(idx)}
}

// PeakLabel maps an hour offset to a human time bucket.
func PeakLabel(hour int) string {
	switch {
	case hour < 6:
		return "Next few hours"
	case hour < 12:
		return "This morning"
	case hour < 18:
		return "This afternoon"
	case hour < 24:
		return "Tonight"
	case hour < 36:
		return "Tomorrow"
	default:
		return "Day after tomorrow"
	}
}

func hourlySnow(snow []float64) []HourlySnow {
	out := make([]HourlySnow, len(snow))
	for i, cm := range snow {
		out[i] = HourlySnow{Hour: i, Cm: roundHalfUp(cm*100) / 100}
	}
	return out
}

func head(xs []float64, n int) []float64 {
	if len(xs) < n {
		return xs
	}
	return xs[:n]
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Min(xs)
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Max(xs)
}

func round1(v float64) float64 {
	return roundHalfUp(v*10) / 10
}

// roundHalfUp rounds .5 towards positive infinity, so -2.25 becomes -2.2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
