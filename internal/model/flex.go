package model

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// FlexInt is an int that unmarshals from a JSON number or a numeric string.
// Backends and form layers disagree on whether counts are numbers or strings,
// so repository inputs accept both. Unparseable values coerce to 0.
type FlexInt int

// FlexFloat is a float64 that unmarshals from a JSON number or a numeric
// string. Unparseable values coerce to NaN so callers can tell "absent or
// zero" apart from "present but garbage".
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := unquote(data)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}

	// Integer coercion of a decimal value truncates, like parseInt.
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(v))
		return nil
	}

	*f = 0
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

// Int returns the underlying int.
func (f FlexInt) Int() int { return int(f) }

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := unquote(data)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexFloat(v)
		return nil
	}

	*f = FlexFloat(math.NaN())
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("0"), nil
	}
	return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

// Float returns the underlying float64.
func (f FlexFloat) Float() float64 { return float64(f) }

// Valid reports whether the value is a finite number.
func (f FlexFloat) Valid() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unquote(data []byte) string {
	s := string(bytes.TrimSpace(data))
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
