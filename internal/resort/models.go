package resort

import (
	"time"
)

// Record is one resort's latest raw observation, with every snow, lift and
// trail figure already resolved into a typed value.
// Name is the join key used across a refresh cycle.
type Record struct {
	Name        string     `json:"name" validate:"required"`
	Location    string     `json:"location"`
	IsOpen      bool       `json:"isOpen"`
	Snow        SnowReport `json:"snow"`
	Lifts       Status     `json:"lifts"`
	Trails      Status     `json:"trails"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// SnowReport holds the snow figures published by a resort.
// Absent fields are unknown, never zero.
type SnowReport struct {
	Base          Magnitude `json:"base"`
	Summit        Magnitude `json:"summit"`
	NewSnow       Magnitude `json:"newSnow"`
	SnowOvernight Magnitude `json:"snowOvernight"`
	Snowfall12h   Magnitude `json:"snowfall12h"`
	Snowfall24h   Magnitude `json:"snowfall24h"`
	Snowfall48h   Magnitude `json:"snowfall48h"`
	Snowfall7Day  Magnitude `json:"snowfall7day"`
	SeasonTotal   Magnitude `json:"seasonTotal"`
	Conditions    string    `json:"conditions,omitempty"`
}

// Overnight returns the overnight snowfall, falling back to the 12h figure
// when the resort does not report overnight snow.
func (s SnowReport) Overnight() Magnitude {
	if s.SnowOvernight.Valid {
		return s.SnowOvernight
	}
	return s.Snowfall12h
}

// Status wraps an "X / Y" open count for lifts or trails.
type Status struct {
	Open Fraction `json:"open"`
}
