package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/leengari/gcharts/internal/domain/data"
)

// aggregate computes one annotation over a group; NULLs are skipped
func aggregate(a Aggregate, rows []data.Row) (any, error) {
	var values []any
	for _, r := range rows {
		if v := r[a.Field]; v != nil {
			values = append(values, v)
		}
	}

	switch a.Func {
	case Count:
		return int64(len(values)), nil
	case Sum:
		return sum(a, values)
	case Avg:
		if len(values) == 0 {
			return nil, nil
		}
		total, err := sum(a, values)
		if err != nil {
			return nil, err
		}
		f, _ := toFloat(total)
		return f / float64(len(values)), nil
	case Min, Max:
		return extreme(a, values)
	}
	return nil, fmt.Errorf("unknown aggregate function %q", a.Func)
}

func sum(a Aggregate, values []any) (any, error) {
	var (
		ints   int64
		floats float64
		isInt  = true
	)
	for _, v := range values {
		if i, ok := normalizeToInt64(v); ok && !isFloat(v) {
			ints += i
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%s(%s): %T is not numeric", a.Func, a.Field, v)
		}
		floats += f
		isInt = false
	}
	if len(values) == 0 {
		return nil, nil
	}
	if isInt {
		return ints, nil
	}
	return floats + float64(ints), nil
}

func extreme(a Aggregate, values []any) (any, error) {
	var best any
	for _, v := range values {
		if best == nil {
			best = v
			continue
		}
		c, err := compare(v, best)
		if err != nil {
			return nil, fmt.Errorf("%s(%s): %w", a.Func, a.Field, err)
		}
		if (a.Func == Min && c < 0) || (a.Func == Max && c > 0) {
			best = v
		}
	}
	return best, nil
}

func compare(x, y any) (int, error) {
	if fx, ok := toFloat(x); ok {
		if fy, ok := toFloat(y); ok {
			switch {
			case fx < fy:
				return -1, nil
			case fx > fy:
				return 1, nil
			}
			return 0, nil
		}
	}
	switch xv := x.(type) {
	case string:
		if yv, ok := y.(string); ok {
			return strings.Compare(xv, yv), nil
		}
	case time.Time:
		if yv, ok := y.(time.Time); ok {
			return xv.Compare(yv), nil
		}
	}
	return 0, fmt.Errorf("cannot compare %T with %T", x, y)
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
