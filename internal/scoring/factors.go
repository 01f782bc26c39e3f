package scoring

import (
	"math"

	"github.com/i474232898/snowdesk/internal/forecast"
	"github.com/i474232898/snowdesk/internal/resort"
)

// Factor names as they appear in the score breakdown.
const (
	FactorFreshSnow        = "freshSnow"
	FactorBaseDepth        = "baseDepth"
	FactorForecastMomentum = "forecastMomentum"
	FactorTemperature      = "temperature"
	FactorWind             = "wind"
	FactorOperations       = "operations"
	FactorPowderProb       = "powderProb"
)

type factor struct {
	name   string
	weight float64
	value  float64
}

// factors evaluates every sub-score in a fixed order.
func factors(r resort.Record, f *forecast.Summary) []factor {
	return []factor{
		{FactorFreshSnow, 0.25, freshSnowIndex(r.Snow)},
		{FactorBaseDepth, 0.15, baseDepthScore(r.Snow.Base)},
		{FactorForecastMomentum, 0.20, forecastMomentum(f)},
		{FactorTemperature, 0.15, temperatureQuality(f)},
		{FactorWind, 0.10, windScore(f)},
		{FactorOperations, 0.10, operationsScore(r)},
		{FactorPowderProb, 0.05, powderProbability(f)},
	}
}

// freshSnowIndex weights recent snow more heavily than older snow and maps the
// result onto a logistic curve. Unknown figures contribute nothing.
func freshSnowIndex(s resort.SnowReport) float64 {
	overnight := s.Overnight().Value
	h24 := s.Snowfall24h.Value
	h48 := s.Snowfall48h.Value
	d7 := s.Snowfall7Day.Value

	weighted := (overnight*3 + h24*2 + h48*1 + d7*0.3) / 6.3
	return sigmoid(weighted, 8, 0.2) * 100
}

// baseDepthScore has diminishing returns past roughly 150cm.
func baseDepthScore(base resort.Magnitude) float64 {
	if !base.Valid || base.Value <= 0 {
		return 0
	}
	return clamp(math.Log(base.Value/10+1)*28, 0, 100)
}

// forecastMomentum rewards incoming snow and a front-loaded storm.
func forecastMomentum(f *forecast.Summary) float64 {
	if f == nil {
		return 30
	}

	base := sigmoid(f.Snowfall48h, 10, 0.15) * 70

	first := f.Snowfall24h
	last := f.Snowfall72h - f.Snowfall48h
	var trend float64
	if first > 0 {
		trend = (first - last) / first
	}

	bonus := trend * 10
	if trend > 0 {
		bonus = trend * 30
	}
	return clamp(base+bonus, 0, 100)
}

// temperatureQuality peaks around -7°C.
func temperatureQuality(f *forecast.Summary) float64 {
	if f == nil {
		return 50
	}

	t := f.Temperature.Avg
	switch {
	case t > 2:
		return clamp(40-(t-2)*12, 0, 40)
	case t < -25:
		return clamp(60+(t+25)*3, 20, 60)
	default:
		d := t + 7
		return clamp(100-d*d*0.8, 30, 100)
	}
}

// windScore blends average and gust speed; calm is 100.
func windScore(f *forecast.Summary) float64 {
	if f == nil {
		return 70
	}
	effective := f.Wind.Avg*0.6 + f.Wind.Max*0.4
	return clamp(100-effective*1.7, 0, 100)
}

// operationsScore averages open status with lift and trail percentages.
// The open-status term always counts, so a closed resort averages in a zero.
func operationsScore(r resort.Record) float64 {
	lifts, trails := r.Lifts.Open, r.Trails.Open
	if !lifts.HasData() && !trails.HasData() {
		if r.IsOpen {
			return 60
		}
		return 0
	}

	var sum float64
	n := 1
	if r.IsOpen {
		sum += 50
	}
	if lifts.HasData() {
		sum += lifts.Percent()
		n++
	}
	if trails.HasData() {
		sum += trails.Percent()
		n++
	}
	return sum / float64(n)
}

// powderProbability discounts precipitation that would fall as rain.
func powderProbability(f *forecast.Summary) float64 {
	if f == nil {
		return 30
	}
	p := float64(f.PrecipProbability)
	t := f.Temperature.Avg
	if t >= 0 {
		p *= math.Max(0, 1-t/5)
	}
	return clamp(p, 0, 100)
}

func sigmoid(x, midpoint, steepness float64) float64 {
	return 1 / (1 + math.Exp(-steepness*(x-midpoint)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
