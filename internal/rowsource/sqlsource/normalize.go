package sqlsource

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/table"
)

// normalizeValue converts a driver value into the Go type the encoders
// expect for the field's wire type. Drivers differ: text columns may arrive
// as []byte, SQLite stores dates as text and booleans as integers.
func normalizeValue(v any, ft schema.FieldType) (any, error) {
	if v == nil {
		return nil, nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch val := v.(type) {
	case int:
		v = int64(val)
	case int32:
		v = int64(val)
	case float32:
		v = float64(val)
	}

	if ft == "" {
		return v, nil
	}
	wt, err := table.MapFieldType(ft)
	if err != nil {
		return nil, err
	}

	switch wt {
	case table.WireNumber:
		if s, ok := v.(string); ok {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i, nil
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parse number %q: %w", s, err)
			}
			return f, nil
		}
	case table.WireBoolean:
		switch val := v.(type) {
		case int64:
			return val != 0, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(val))
			if err != nil {
				return nil, fmt.Errorf("parse bool %q: %w", val, err)
			}
			return b, nil
		}
	case table.WireDate, table.WireDateTime:
		if s, ok := v.(string); ok {
			t, err := dateparse.ParseAny(s)
			if err != nil {
				return nil, fmt.Errorf("parse date %q: %w", s, err)
			}
			return t, nil
		}
	case table.WireTimeOfDay:
		switch val := v.(type) {
		case time.Time:
			return table.ClockOf(val), nil
		case string:
			t, err := table.ParseClock(val)
			if err != nil {
				return nil, err
			}
			return t, nil
		}
	}
	return v, nil
}
