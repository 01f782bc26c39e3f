package scoring

import (
	"math"

	"github.com/i474232898/snowdesk/internal/forecast"
	"github.com/i474232898/snowdesk/internal/resort"
)

// Grade is the letter-style label attached to a score.
type Grade string

const (
	GradeEpic  Grade = "Epic"
	GradeGreat Grade = "Great"
	GradeGood  Grade = "Good"
	GradeFair  Grade = "Fair"
	GradePoor  Grade = "Poor"
)

// Trend describes where conditions are heading over the next day.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendSteady  Trend = "steady"
	TrendFalling Trend = "falling"
)

// Bonus is a contextual adjustment added on top of the weighted composite.
type Bonus struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
	Icon   string `json:"icon"`
}

// Result is the explainable score for one resort.
type Result struct {
	Score   int            `json:"score"`
	Grade   Grade          `json:"grade"`
	Trend   Trend          `json:"trend"`
	Factors map[string]int `json:"factors"`
	Bonuses []Bonus        `json:"bonuses"`
}

// Score computes the composite quality score for a resort. A nil forecast
// means none was available; each forecast-driven factor then uses its
// neutral default. Score is deterministic for identical inputs.
func Score(r resort.Record, f *forecast.Summary) Result {
	fs := factors(r, f)

	var composite float64
	breakdown := make(map[string]int, len(fs))
	for _, ft := range fs {
		composite += ft.value * ft.weight
		breakdown[ft.name] = roundInt(ft.value)
	}

	bonuses := bonusesFor(r, f)
	for _, b := range bonuses {
		composite += float64(b.Points)
	}

	score := roundInt(clamp(composite, 0, 100))
	return Result{
		Score:   score,
		Grade:   GradeFor(score),
		Trend:   trendFor(r, f),
		Factors: breakdown,
		Bonuses: bonuses,
	}
}

func bonusesFor(r resort.Record, f *forecast.Summary) []Bonus {
	bonuses := []Bonus{}

	if r.Snow.Snowfall24h.Value >= 15 || r.Snow.Overnight().Value >= 10 {
		bonuses = append(bonuses, Bonus{Label: "Powder Day", Points: 5, Icon: "🎿"})
	}
	if f != nil && f.Snowfall48h >= 20 {
		bonuses = append(bonuses, Bonus{Label: "Storm Incoming", Points: 3, Icon: "🌨️"})
	}
	if f != nil && f.Wind.Avg < 5 && f.Temperature.Avg < -3 && f.Snowfall24h < 1 {
		bonuses = append(bonuses, Bonus{Label: "Bluebird Day", Points: 2, Icon: "☀️"})
	}
	return bonuses
}

// GradeFor maps a final score onto its grade; lower bounds are inclusive.
func GradeFor(score int) Grade {
	switch {
	case score >= 85:
		return GradeEpic
	case score >= 70:
		return GradeGreat
	case score >= 55:
		return GradeGood
	case score >= 40:
		return GradeFair
	default:
		return GradePoor
	}
}

// trendFor keeps the historical thresholds as-is: rising at 5cm, steady at
// 2cm, and falling only when yesterday was snowy and tomorrow is not.
func trendFor(r resort.Record, f *forecast.Summary) Trend {
	if f == nil {
		return TrendSteady
	}
	switch {
	case f.Snowfall24h >= 5:
		return TrendRising
	case f.Snowfall24h >= 2:
		return TrendSteady
	case r.Snow.Snowfall24h.Value > 5 && f.Snowfall24h < 2:
		return TrendFalling
	default:
		return TrendSteady
	}
}

func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}
