package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a decimal item value that tolerates historically invalid data.
// Servers predating value validation stored free text (e.g. "abc"); decoding
// such a value must not fail the whole item list, and aggregates must count
// it as zero.
type Amount struct {
	f     float64
	valid bool
	raw   string
}

func NewAmount(f float64) Amount {
	return Amount{f: f, valid: true}
}

// ParseAmount reads user-entered text. Non-numeric input is kept for display
// but counts as zero, matching how stored legacy values behave.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{valid: true}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Amount{raw: s}
	}
	return Amount{f: f, valid: true}
}

// Float64 returns the numeric value, or (0, false) when the stored value was
// not numeric.
func (a Amount) Float64() (float64, bool) {
	if !a.valid {
		return 0, false
	}
	return a.f, true
}

func (a Amount) String() string {
	if !a.valid {
		return a.raw
	}
	return strconv.FormatFloat(a.f, 'f', 2, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.valid {
		return []byte("0"), nil
	}
	return json.Marshal(a.f)
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null" || s == "":
		*a = Amount{valid: true}
		return nil
	case s[0] == '"':
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*a = Amount{valid: true}
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			*a = Amount{raw: raw}
			return nil
		}
		*a = Amount{f: f, valid: true}
		return nil
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			// Keep the raw text for display; the value counts as zero.
			*a = Amount{raw: s}
			return nil
		}
		*a = Amount{f: f, valid: true}
		return nil
	}
}
