package resort

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMagnitude(t *testing.T) {
	tests := []struct {
		in    string
		value float64
		valid bool
	}{
		{"12cm", 12, true},
		{" 150 cm ", 150, true},
		{"2.5\"", 2.5, true},
		{".5cm", 0.5, true},
		{"Trace", 0, true},
		{"", 0, false},
		{"   ", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := ParseMagnitude(tt.in)
			assert.Equal(t, tt.valid, m.Valid)
			assert.InDelta(t, tt.value, m.Value, 1e-9)
		})
	}
}

func TestParseFraction(t *testing.T) {
	f := ParseFraction("5 / 8")
	require.True(t, f.HasData())
	assert.Equal(t, 5, f.Open)
	assert.Equal(t, 8, f.Total)
	assert.InDelta(t, 62.5, f.Percent(), 1e-9)

	assert.True(t, ParseFraction("12/12").HasData())
	assert.False(t, ParseFraction("0 / 0").HasData(), "zero total has no percentage")
	assert.False(t, ParseFraction("closed").Valid)
	assert.False(t, ParseFraction("").Valid)
}

func TestRecord_DecodeResolvesOnce(t *testing.T) {
	payload := `{
		"name": "Cypress Mountain",
		"location": "North Vancouver, BC",
		"isOpen": true,
		"snow": {"base": "150cm", "snowfall24h": "20 cm", "snowOvernight": null, "snowfall12h": 7},
		"lifts": {"open": "5 / 5"},
		"trails": {"open": "20 / 53"}
	}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.Equal(t, 150.0, r.Snow.Base.Value)
	assert.Equal(t, 20.0, r.Snow.Snowfall24h.Value)
	assert.False(t, r.Snow.Snowfall48h.Valid, "missing field stays unknown")
	assert.False(t, r.Snow.SnowOvernight.Valid)
	assert.Equal(t, 7.0, r.Snow.Overnight().Value, "overnight falls back to 12h")
	assert.Equal(t, 20, r.Trails.Open.Open)
	assert.Equal(t, 53, r.Trails.Open.Total)

	out, err := json.Marshal(r)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	snow := back["snow"].(map[string]any)
	assert.Equal(t, "150cm", snow["base"])
	assert.Nil(t, snow["snowfall48h"])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Record{Name: "Sun Peaks"}))
	assert.ErrorIs(t, Validate(Record{}), ErrSourceUnavailable)
}
