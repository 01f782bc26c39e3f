package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatSeries(snow, temp, wind, precip float64) Series {
	s := Series{
		Name:              "Test",
		Snowfall:          make([]float64, HoursRequired),
		Temperature:       make([]float64, HoursRequired),
		WindSpeed:         make([]float64, HoursRequired),
		PrecipProbability: make([]float64, HoursRequired),
	}
	for i := 0; i < HoursRequired; i++ {
		s.Snowfall[i] = snow
		s.Temperature[i] = temp
		s.WindSpeed[i] = wind
		s.PrecipProbability[i] = precip
	}
	return s
}

func TestAggregate_NestedWindows(t *testing.T) {
	s := flatSeries(0.5, -6, 10, 40)

	got := Aggregate(s)

	assert.Equal(t, 12.0, got.Snowfall24h)
	assert.Equal(t, 24.0, got.Snowfall48h, "48h window includes the first 24h")
	assert.Equal(t, 36.0, got.Snowfall72h)
	assert.Equal(t, Temperature{Avg: -6, Min: -6, Max: -6}, got.Temperature)
	assert.Equal(t, Wind{Avg: 10, Max: 10}, got.Wind)
	assert.Equal(t, 40, got.PrecipProbability)
	assert.Len(t, got.HourlySnow, 24)
	require.NotNil(t, got.PeakWindow)
	assert.Equal(t, 0, got.PeakWindow.StartsIn, "first index wins on ties")
}

func TestAggregate_StatsUseFirst24Hours(t *testing.T) {
	s := flatSeries(0, -5, 5, 10)
	s.Temperature[3] = -15
	s.Temperature[10] = 1
	s.Temperature[30] = 20 // outside the 24h window
	s.WindSpeed[12] = 53
	s.WindSpeed[60] = 100

	got := Aggregate(s)

	assert.Equal(t, -15.0, got.Temperature.Min)
	assert.Equal(t, 1.0, got.Temperature.Max)
	assert.Equal(t, 53.0, got.Wind.Max)
	assert.Equal(t, 7.0, got.Wind.Avg) // (23*5 + 53) / 24
}

func TestAggregate_PeakWindow(t *testing.T) {
	s := flatSeries(0, -5, 5, 10)
	s.Snowfall[5] = 8

	got := Aggregate(s)

	require.NotNil(t, got.PeakWindow)
	assert.Equal(t, 5, got.PeakWindow.StartsIn)
	assert.Equal(t, "Next few hours", got.PeakWindow.Label)
}

func TestAggregate_PeakIgnoresBeyond48h(t *testing.T) {
	s := flatSeries(0, -5, 5, 10)
	s.Snowfall[30] = 2
	s.Snowfall[60] = 9

	got := Aggregate(s)

	require.NotNil(t, got.PeakWindow)
	assert.Equal(t, 30, got.PeakWindow.StartsIn)
	assert.Equal(t, "Tomorrow", got.PeakWindow.Label)
}

func TestAggregate_NoSnowHasNoPeak(t *testing.T) {
	got := Aggregate(flatSeries(0, -5, 5, 10))
	assert.Nil(t, got.PeakWindow)
	assert.Zero(t, got.Snowfall72h)
}

func TestAggregate_Rounding(t *testing.T) {
	s := flatSeries(0, -5, 5, 10)
	s.Snowfall[0] = 0.04
	s.Snowfall[1] = 0.03
	s.PrecipProbability[0] = 22 // average 10.5 rounds up

	got := Aggregate(s)

	assert.Equal(t, 0.1, got.Snowfall24h)
	assert.Equal(t, 0.04, got.HourlySnow[0].Cm)
	assert.Equal(t, 11, got.PrecipProbability)
}

func TestAggregate_ShortSeriesDoesNotPanic(t *testing.T) {
	s := Series{Snowfall: []float64{1, 2}, Temperature: []float64{-3}}
	assert.Error(t, s.Validate())

	got := Aggregate(s)
	assert.Equal(t, 3.0, got.Snowfall72h)
	assert.Equal(t, -3.0, got.Temperature.Avg)
	assert.Zero(t, got.Wind.Max)
}

func TestPeakLabel(t *testing.T) {
	cases := map[int]string{
		0: "Next few hours", 5: "Next few hours",
		6: "This morning", 11: "This morning",
		12: "This afternoon", 17: "This afternoon",
		18: "Tonight", 23: "Tonight",
		24: "Tomorrow", 35: "Tomorrow",
		36: "Day after tomorrow", 47: "Day after tomorrow",
	}
	for hour, want := range cases {
		assert.Equal(t, want, PeakLabel(hour), "hour %d", hour)
	}
}

func TestSeriesValidate(t *testing.T) {
	assert.NoError(t, flatSeries(0, 0, 0, 0).Validate())

	s := flatSeries(0, 0, 0, 0)
	s.WindSpeed = s.WindSpeed[:48]
	assert.ErrorIs(t, s.Validate(), ErrShortSeries)
}
