package table

import (
	"fmt"

	"github.com/leengari/gcharts/internal/domain/data"
)

// Projector turns one source record into a keyed row.
// Records may be keyed rows, positional tuples or bare scalars depending on
// the strategy.
type Projector interface {
	Project(record any) (data.Row, error)
}

// ProjectorFunc adapts a function to Projector
type ProjectorFunc func(record any) (data.Row, error)

func (f ProjectorFunc) Project(record any) (data.Row, error) { return f(record) }

// ProjectColumns keeps exactly the given keys of a keyed record.
// Keys absent from the record are set to nil.
func ProjectColumns(keys ...string) Projector {
	return ProjectorFunc(func(record any) (data.Row, error) {
		var src map[string]any
		switch r := record.(type) {
		case data.Row:
			src = r
		case map[string]any:
			src = r
		case nil:
		default:
			return nil, fmt.Errorf("project columns: expected keyed row, got %T", record)
		}

		projected := make(data.Row, len(keys))
		for _, key := range keys {
			projected[key] = src[key]
		}
		return projected, nil
	})
}

// ProjectTuple maps a positional record onto keys.
// Short tuples leave the remaining keys nil.
func ProjectTuple(keys ...string) Projector {
	return ProjectorFunc(func(record any) (data.Row, error) {
		tuple, ok := record.([]any)
		if !ok {
			return nil, fmt.Errorf("project tuple: expected []any, got %T", record)
		}
		if len(tuple) > len(keys) {
			return nil, fmt.Errorf("project tuple: %d values for %d keys", len(tuple), len(keys))
		}

		projected := make(data.Row, len(keys))
		for i, key := range keys {
			if i < len(tuple) {
				projected[key] = tuple[i]
			} else {
				projected[key] = nil
			}
		}
		return projected, nil
	})
}

// FlattenSingle wraps a scalar record as a one-column row
func FlattenSingle(key string) Projector {
	return ProjectorFunc(func(record any) (data.Row, error) {
		return data.Row{key: record}, nil
	})
}

// Compose applies first, then feeds its row through next
func Compose(first, next Projector) Projector {
	return ProjectorFunc(func(record any) (data.Row, error) {
		row, err := first.Project(record)
		if err != nil {
			return nil, err
		}
		return next.Project(row)
	})
}

// Tuple reads the values of keys from row in order (inverse of ProjectTuple)
func Tuple(row data.Row, keys []string) []any {
	out := make([]any, len(keys))
	for i, key := range keys {
		out[i] = row[key]
	}
	return out
}

// ProjectAll applies p to every record
func ProjectAll[T any](records []T, p Projector) ([]data.Row, error) {
	rows := make([]data.Row, len(records))
	for i, rec := range records {
		row, err := p.Project(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows[i] = row
	}
	return rows, nil
}
