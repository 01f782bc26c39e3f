package scoring

import (
	"sort"

	"github.com/i474232898/snowdesk/internal/forecast"
	"github.com/i474232898/snowdesk/internal/resort"
)

// Ranked is a resort record joined with its forecast, score and position.
type Ranked struct {
	resort.Record
	Forecast    *forecast.Summary `json:"forecast"`
	Score       int               `json:"score"`
	Grade       Grade             `json:"grade"`
	Trend       Trend             `json:"trend"`
	ScoreMeta   ScoreMeta         `json:"scoreMeta"`
	Rank        int               `json:"rank"`
	IsBestToday bool              `json:"isBestToday"`
}

// ScoreMeta carries the explanation behind a score.
type ScoreMeta struct {
	Factors map[string]int `json:"factors"`
	Bonuses []Bonus        `json:"bonuses"`
}

// Rank scores every record, looking its forecast up by name, and orders the
// result by score descending. Ties keep their input order.
func Rank(records []resort.Record, forecasts map[string]forecast.Summary) []Ranked {
	out := make([]Ranked, 0, len(records))
	for _, r := range records {
		var fc *forecast.Summary
		if f, ok := forecasts[r.Name]; ok {
			fc = &f
		}

		res := Score(r, fc)
		out = append(out, Ranked{
			Record:   r,
			Forecast: fc,
			Score:    res.Score,
			Grade:    res.Grade,
			Trend:    res.Trend,
			ScoreMeta: ScoreMeta{
				Factors: res.Factors,
				Bonuses: res.Bonuses,
			},
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	for i := range out {
		out[i].Rank = i + 1
		out[i].IsBestToday = i == 0
	}
	return out
}
