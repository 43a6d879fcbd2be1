package table

import (
	"fmt"
	"strings"
	"time"
)

// Cell wraps a row value with an optional formatted value and custom
// properties. Plain values are treated as Cell{V: value}.
type Cell struct {
	V any
	F *string
	P map[string]any
}

// Formatted returns a cell with an explicit formatted value
func Formatted(v any, f string) Cell {
	return Cell{V: v, F: &f}
}

// AsCell normalizes a raw row value into a Cell
func AsCell(v any) Cell {
	switch c := v.(type) {
	case Cell:
		return c
	case *Cell:
		if c == nil {
			return Cell{}
		}
		return *c
	}
	return Cell{V: v}
}

// TimeOfDay is a wall clock time without a date
type TimeOfDay struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// ClockOf extracts the time of day from t
func ClockOf(t time.Time) TimeOfDay {
	return TimeOfDay{
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Millisecond: t.Nanosecond() / int(time.Millisecond),
	}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ParseClock parses "15:04", "15:04:05" or "15:04:05.000" into a time of day
func ParseClock(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05.999999999", time.TimeOnly, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("parse time of day %q", s)
}
