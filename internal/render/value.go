package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/leengari/gcharts/internal/domain/errors"
	"github.com/leengari/gcharts/internal/table"
)

// coerce normalizes v for a column of type wt.
// Results are string, int64, uint64, float64, json.Number, bool, time.Time or
// table.TimeOfDay. ok is false when v does not fit the column.
func coerce(v any, wt table.WireType) (any, bool) {
	switch wt {
	case table.WireString:
		return toString(v), true
	case table.WireNumber:
		return toNumber(v)
	case table.WireBoolean:
		b, ok := v.(bool)
		return b, ok
	case table.WireDate, table.WireDateTime:
		switch t := v.(type) {
		case time.Time:
			return t, true
		case *time.Time:
			if t != nil {
				return *t, true
			}
		}
		return nil, false
	case table.WireTimeOfDay:
		switch t := v.(type) {
		case table.TimeOfDay:
			return t, true
		case time.Time:
			return table.ClockOf(t), true
		case time.Duration:
			return table.TimeOfDay{
				Hour:        int(t / time.Hour),
				Minute:      int(t % time.Hour / time.Minute),
				Second:      int(t % time.Minute / time.Second),
				Millisecond: int(t % time.Second / time.Millisecond),
			}, true
		}
		return nil, false
	}
	return nil, false
}

func toNumber(v any) (any, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	case float32:
		return finite(float64(n))
	case float64:
		return finite(n)
	case json.Number:
		return n, true
	}
	return nil, false
}

func finite(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// toString renders any value as plain text
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.DateTime)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// text renders an already coerced value for CSV, TSV and HTML
func text(v any, wt table.WireType) string {
	switch wt {
	case table.WireDate:
		return v.(time.Time).Format(time.DateOnly)
	case table.WireDateTime:
		return v.(time.Time).Format(time.DateTime)
	case table.WireTimeOfDay:
		return v.(table.TimeOfDay).String()
	}
	return toString(v)
}

// jsonValue converts a coerced value into the form the chart library expects
// inside a JSON DataTable
func jsonValue(v any, wt table.WireType) any {
	if v == nil {
		return nil
	}
	switch wt {
	case table.WireDate:
		t := v.(time.Time)
		return fmt.Sprintf("Date(%d,%d,%d)", t.Year(), int(t.Month())-1, t.Day())
	case table.WireDateTime:
		return "Date(" + dateTimeArgs(v.(time.Time)) + ")"
	case table.WireTimeOfDay:
		return clockParts(v.(table.TimeOfDay))
	}
	return v
}

// jsLiteral renders a coerced value as JavaScript source
func jsLiteral(v any, wt table.WireType) (string, error) {
	if v == nil {
		return "null", nil
	}
	switch wt {
	case table.WireDate:
		t := v.(time.Time)
		return fmt.Sprintf("new Date(%d,%d,%d)", t.Year(), int(t.Month())-1, t.Day()), nil
	case table.WireDateTime:
		return "new Date(" + dateTimeArgs(v.(time.Time)) + ")", nil
	case table.WireTimeOfDay:
		v = clockParts(v.(table.TimeOfDay))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func dateTimeArgs(t time.Time) string {
	s := fmt.Sprintf("%d,%d,%d,%d,%d,%d", t.Year(), int(t.Month())-1, t.Day(), t.Hour(), t.Minute(), t.Second())
	if ms := t.Nanosecond() / int(time.Millisecond); ms != 0 {
		s += "," + strconv.Itoa(ms)
	}
	return s
}

func clockParts(t table.TimeOfDay) []int {
	parts := []int{t.Hour, t.Minute, t.Second}
	if t.Millisecond != 0 {
		parts = append(parts, t.Millisecond)
	}
	return parts
}

func valueTypeError(col table.Column, v any, row int) error {
	return &errors.ValueTypeError{
		Column:   col.Key,
		Value:    v,
		WireType: string(col.Type),
		RowIndex: row,
	}
}
