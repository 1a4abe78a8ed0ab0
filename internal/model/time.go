package model

import (
	"encoding/json"
	"strings"
	"time"
)

// FracUnit is the unit of the seventh element of a timestamp part list.
// The backend serializes Java LocalDateTime values as
// [year, month, day, hour, minute, second, nanos], but exported trace
// files have been seen carrying microseconds instead.
type FracUnit time.Duration

const (
	FracNanos  FracUnit = FracUnit(time.Nanosecond)
	FracMicros FracUnit = FracUnit(time.Microsecond)
)

// Instant is a point in time that may be absent. Timestamps in
// execution records are optional and frequently malformed; parsing is
// total and malformed input yields the zero Instant rather than an
// error.
type Instant struct {
	Time  time.Time
	Valid bool
}

// InstantOf wraps a concrete time.
func InstantOf(t time.Time) Instant {
	return Instant{Time: t, Valid: true}
}

// Before reports whether i sorts before other. Absent instants sort
// before any present instant and tie with each other, so a stable
// sort keeps their relative order.
func (i Instant) Before(other Instant) bool {
	if !i.Valid || !other.Valid {
		return !i.Valid && other.Valid
	}
	return i.Time.Before(other.Time)
}

// Clock formats the instant as HH:MM:SS, or placeholder when absent.
func (i Instant) Clock(placeholder string) string {
	if !i.Valid {
		return placeholder
	}
	return i.Time.Format("15:04:05")
}

// ParseParts builds an Instant from a [year, month, day, hour,
// minute, second, fractional] sequence. Shorter sequences are padded
// with zeroes from the left-out tail; fewer than three elements is
// unparseable. The fractional element is interpreted in unit.
func ParseParts(parts []int, unit FracUnit) Instant {
	if len(parts) < 3 {
		return Instant{}
	}
	padded := make([]int, 7)
	copy(padded, parts)
	if padded[1] < 1 || padded[1] > 12 {
		return Instant{}
	}
	nanos := padded[6] * int(unit)
	t := time.Date(padded[0], time.Month(padded[1]), padded[2],
		padded[3], padded[4], padded[5], nanos, time.UTC)
	return InstantOf(t)
}

// iso layouts accepted for string timestamps, most specific first.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseString parses an ISO-8601-like timestamp, tolerating a literal
// trailing Z. Unparseable input yields the absent Instant.
func ParseString(s string) Instant {
	s = strings.TrimSpace(s)
	if s == "" {
		return Instant{}
	}
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return InstantOf(t)
		}
	}
	return Instant{}
}

// UnmarshalJSON accepts null, an ISO string, or a numeric part list
// (fractional element in nanoseconds, the backend's wire form).
// Anything else decodes as absent; this method never returns an
// error for well-formed JSON.
func (i *Instant) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*i = Instant{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = ParseString(s)
		return nil
	}

	var parts []float64
	if err := json.Unmarshal(data, &parts); err == nil {
		ints := make([]int, len(parts))
		for idx, p := range parts {
			ints[idx] = int(p)
		}
		*i = ParseParts(ints, FracNanos)
		return nil
	}

	*i = Instant{}
	return nil
}

// MarshalJSON writes the instant as an ISO string, or null when
// absent.
func (i Instant) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Time.Format("2006-01-02T15:04:05.999999999"))
}
