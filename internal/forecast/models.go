package forecast

import (
	"errors"
	"fmt"
)

// HoursRequired is the minimum number of hourly samples a series must carry.
const HoursRequired = 72

var (
	// ErrForecastUnavailable is returned when a location gets no usable forecast this cycle.
	ErrForecastUnavailable = errors.New("forecast unavailable")
	// ErrNoCoordinates is returned when a location cannot be placed on a map.
	ErrNoCoordinates = errors.New("no known coordinates")
	// ErrShortSeries is returned by Validate when a series has fewer than HoursRequired samples.
	ErrShortSeries = errors.New("forecast series too short")
)

// Series is an hourly forecast for one location, index 0 being the current hour.
type Series struct {
	Name              string
	Snowfall          []float64 // cm per hour
	Temperature       []float64 // °C
	WindSpeed         []float64 // km/h
	PrecipProbability []float64 // percent
}

// Validate checks that every hourly array covers the aggregation windows.
func (s Series) Validate() error {
	for field, n := range map[string]int{
		"snowfall":                  len(s.Snowfall),
		"temperature":               len(s.Temperature),
		"wind speed":                len(s.WindSpeed),
		"precipitation probability": len(s.PrecipProbability),
	} {
		if n < HoursRequired {
			return fmt.Errorf("%w: %s has %d samples, need %d", ErrShortSeries, field, n, HoursRequired)
		}
	}
	return nil
}

// Summary is the aggregated view of a Series consumed by scoring.
type Summary struct {
	Snowfall24h       float64      `json:"snowfall24h"`
	Snowfall48h       float64      `json:"snowfall48h"`
	Snowfall72h       float64      `json:"snowfall72h"`
	HourlySnow        []HourlySnow `json:"hourlySnow"`
	Temperature       Temperature  `json:"temperature"`
	Wind              Wind         `json:"wind"`
	PrecipProbability int          `json:"precipProbability"`
	PeakWindow        *PeakWindow  `json:"peakWindow"`
}

// HourlySnow is one bar of the next-24h snowfall chart.
type HourlySnow struct {
	Hour int     `json:"hour"`
	Cm   float64 `json:"cm"`
}

type Temperature struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Wind struct {
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
}

// PeakWindow marks the hour of heaviest snowfall in the next 48 hours.
type PeakWindow struct {
	StartsIn int    `json:"startsIn"`
	Label    string `json:"label"`
}
