package gcharts

import (
	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/table"
)

// StaticSource is a Source over rows already held by the caller
type StaticSource struct {
	fields []Field
	rows   []Row
}

// FromRows wraps keyed rows
func FromRows(fields []Field, rows []Row) (*StaticSource, error) {
	return fromRecords(fields, rows, table.ProjectColumns(names(fields)...))
}

// FromTuples wraps positional rows; values map onto fields in order
func FromTuples(fields []Field, tuples [][]any) (*StaticSource, error) {
	records := make([]any, len(tuples))
	for i, t := range tuples {
		records[i] = t
	}
	return fromRecords(fields, records, table.ProjectTuple(names(fields)...))
}

// FromValues wraps a single column of bare values
func FromValues(field Field, values []any) (*StaticSource, error) {
	return fromRecords([]Field{field}, values, table.Compose(
		table.FlattenSingle(field.Name),
		table.ProjectColumns(field.Name),
	))
}

func fromRecords[T any](fields []Field, records []T, p table.Projector) (*StaticSource, error) {
	rows, err := table.ProjectAll(records, p)
	if err != nil {
		return nil, err
	}
	return &StaticSource{fields: append([]Field(nil), fields...), rows: rows}, nil
}

func names(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// Fields implements schema.LocalSchema
func (s *StaticSource) Fields() []schema.Field {
	return append([]Field(nil), s.fields...)
}

// Rows implements Source
func (s *StaticSource) Rows(keys []string) ([]Row, error) {
	return table.ProjectAll(s.rows, table.ProjectColumns(keys...))
}
