package resort

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPattern   = regexp.MustCompile(`\d*\.?\d+`)
	fractionPattern = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)
)

// Magnitude is a snow figure such as "12cm" or "Trace".
// Valid is false when the source did not report the field at all.
type Magnitude struct {
	Text  string
	Value float64
	Valid bool
}

// ParseMagnitude extracts the leading numeric token of s. An empty string is
// treated as absent; a present string without a number yields zero.
func ParseMagnitude(s string) Magnitude {
	s = strings.TrimSpace(s)
	if s == "" {
		return Magnitude{}
	}

	m := Magnitude{Text: s, Valid: true}
	if tok := numberPattern.FindString(s); tok != "" {
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			m.Value = v
		}
	}
	return m
}

// Known returns a present magnitude with the given value. Mostly useful in tests.
func Known(v float64) Magnitude {
	return Magnitude{Text: strconv.FormatFloat(v, 'f', -1, 64) + "cm", Value: v, Valid: true}
}

func (m Magnitude) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Text)
}

func (m *Magnitude) UnmarshalJSON(data []byte) error {
	s, err := decodeLoose(data)
	if err != nil {
		return err
	}
	*m = ParseMagnitude(s)
	return nil
}

// Fraction is an "X / Y" count such as open lifts out of total lifts.
type Fraction struct {
	Text  string
	Open  int
	Total int
	Valid bool
}

// ParseFraction reads an "X / Y" string. Anything else is reported as no data.
func ParseFraction(s string) Fraction {
	s = strings.TrimSpace(s)
	if s == "" {
		return Fraction{}
	}

	match := fractionPattern.FindStringSubmatch(s)
	if match == nil {
		return Fraction{Text: s}
	}
	open, err1 := strconv.Atoi(match[1])
	total, err2 := strconv.Atoi(match[2])
	if err1 != nil || err2 != nil {
		return Fraction{Text: s}
	}
	return Fraction{Text: s, Open: open, Total: total, Valid: true}
}

// HasData reports whether the fraction can be turned into a percentage.
func (f Fraction) HasData() bool {
	return f.Valid && f.Total > 0
}

// Percent returns Open/Total scaled to 100. Callers check HasData first.
func (f Fraction) Percent() float64 {
	if !f.HasData() {
		return 0
	}
	return float64(f.Open) / float64(f.Total) * 100
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	if f.Text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(f.Text)
}

func (f *Fraction) UnmarshalJSON(data []byte) error {
	s, err := decodeLoose(data)
	if err != nil {
		return err
	}
	*f = ParseFraction(s)
	return nil
}

// decodeLoose accepts a JSON string, number or null and returns its text.
func decodeLoose(data []byte) (string, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		return "", nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
