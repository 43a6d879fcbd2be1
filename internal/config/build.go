package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/tidwall/gjson"

	"github.com/leengari/gcharts/gcharts"
	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/rowsource/memory"
	"github.com/leengari/gcharts/internal/table"
)

// Chart is a loaded chart spec: the seeded tables, the charted view and the
// serialization options
type Chart struct {
	Tables  map[string]*memory.Table
	Query   *memory.Query
	Options gcharts.Options
	Spec    ChartSpec
}

// Build creates the declared tables, seeds them and prepares the chart view
func (f *File) Build() (*Chart, error) {
	tables := make(map[string]*memory.Table, len(f.Tables))
	for _, ts := range f.Tables {
		tables[ts.Name] = memory.NewTable(ts.Name, ts.Fields...)
	}
	for _, ts := range f.Tables {
		for owner, target := range ts.Relations {
			if err := tables[ts.Name].Relate(owner, tables[target]); err != nil {
				return nil, err
			}
		}
	}
	for _, ts := range f.Tables {
		if err := f.seed(tables[ts.Name], ts); err != nil {
			return nil, fmt.Errorf("table %s: %w", ts.Name, err)
		}
	}

	c := f.Chart
	q := tables[c.Table].Query().Values(c.Values...)
	for _, a := range c.Annotate {
		fn, err := parseAggFunc(a.Func)
		if err != nil {
			return nil, err
		}
		q = q.Annotate(memory.Aggregate{Func: fn, Field: a.Field, Alias: a.Alias})
	}

	specs := make(map[string]gcharts.ExtraFieldSpec, len(c.Extra))
	for _, e := range c.Extra {
		q = q.Extra(e.Name, templateFunc(e))
		specs[e.Name] = gcharts.ExtraFieldSpec{Type: e.Type, Label: e.Label}
	}

	return &Chart{
		Tables: tables,
		Query:  q,
		Spec:   c,
		Options: gcharts.Options{
			Labels:           c.Labels,
			Order:            c.Order,
			Properties:       c.Properties,
			ColumnProperties: c.ColumnProperties,
			ExtraFieldSpecs:  specs,
			Masks:            c.Masks,
		},
	}, nil
}

func (f *File) seed(t *memory.Table, ts TableSpec) error {
	rows := make([]data.Row, 0, len(ts.Rows))
	if ts.Data != "" {
		raw, err := os.ReadFile(f.dataPath(ts.Data))
		if err != nil {
			return fmt.Errorf("read data: %w", err)
		}
		rows, err = ParseJSONRows(raw, t.Fields())
		if err != nil {
			return fmt.Errorf("%s: %w", ts.Data, err)
		}
	}
	for i, r := range ts.Rows {
		row, err := convertRow(r, t.Fields())
		if err != nil {
			return fmt.Errorf("rows[%d]: %w", i, err)
		}
		rows = append(rows, row)
	}

	for i, row := range rows {
		if err := t.Insert(row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// ParseJSONRows reads a JSON array of row objects, converting each value to
// the Go type of its field. Keys may use the logical or storage field name.
func ParseJSONRows(raw []byte, fields []schema.Field) ([]data.Row, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, fmt.Errorf("expected an array of rows, got %s", doc.Type)
	}

	var rows []data.Row
	var rowErr error
	idx := -1
	doc.ForEach(func(_, obj gjson.Result) bool {
		idx++
		if !obj.IsObject() {
			rowErr = fmt.Errorf("row %d: expected an object", idx)
			return false
		}
		row := make(data.Row)
		obj.ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			field, ok := fieldFor(fields, key)
			if !ok {
				// unknown columns are rejected by the table on insert
				row[key] = v.Value()
				return true
			}
			val, err := convert(jsonScalar(v), field.Type)
			if err != nil {
				rowErr = fmt.Errorf("row %d: %s: %w", idx, key, err)
				return false
			}
			row[field.Name] = val
			return true
		})
		rows = append(rows, row)
		return rowErr == nil
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return rows, nil
}

// jsonScalar keeps integral JSON numbers integral
func jsonScalar(v gjson.Result) any {
	if v.Type == gjson.Number && !strings.ContainsAny(v.Raw, ".eE") {
		return v.Int()
	}
	return v.Value()
}

func convertRow(r map[string]any, fields []schema.Field) (data.Row, error) {
	row := make(data.Row, len(r))
	for key, v := range r {
		field, ok := fieldFor(fields, key)
		if !ok {
			row[key] = v
			continue
		}
		val, err := convert(v, field.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		row[field.Name] = val
	}
	return row, nil
}

func fieldFor(fields []schema.Field, key string) (schema.Field, bool) {
	for _, f := range fields {
		if f.Matches(key) {
			return f, true
		}
	}
	return schema.Field{}, false
}

// convert turns a decoded YAML or JSON scalar into the value type the
// encoders expect for ft
func convert(v any, ft schema.FieldType) (any, error) {
	if v == nil {
		return nil, nil
	}
	wt, err := table.MapFieldType(ft)
	if err != nil {
		return nil, err
	}

	switch wt {
	case table.WireString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case table.WireNumber:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64, uint64, float64:
			return n, nil
		case string:
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i, nil
			}
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, fmt.Errorf("parse number %q: %w", n, err)
			}
			return f, nil
		}
	case table.WireBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("parse bool %q: %w", b, err)
			}
			return parsed, nil
		}
	case table.WireDate, table.WireDateTime:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			parsed, err := dateparse.ParseIn(t, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("parse date %q: %w", t, err)
			}
			return parsed, nil
		}
	case table.WireTimeOfDay:
		switch t := v.(type) {
		case time.Time:
			return table.ClockOf(t), nil
		case string:
			clock, err := table.ParseClock(t)
			if err != nil {
				return nil, err
			}
			return clock, nil
		}
	}
	return nil, fmt.Errorf("cannot use %v (%T) as %s", v, v, wt)
}

// templateFunc expands an extra column template against a source row.
// A template naming a single field returns that field's raw value.
func templateFunc(e ExtraSpec) func(data.Row) any {
	tmpl := e.Template
	if strings.HasPrefix(tmpl, "{") && strings.HasSuffix(tmpl, "}") && strings.Count(tmpl, "{") == 1 {
		key := tmpl[1 : len(tmpl)-1]
		return func(row data.Row) any { return row[key] }
	}

	return func(row data.Row) any {
		pairs := make([]string, 0, 2*len(row))
		for k, v := range row {
			s := ""
			if v != nil {
				s = fmt.Sprint(v)
			}
			pairs = append(pairs, "{"+k+"}", s)
		}
		out := strings.NewReplacer(pairs...).Replace(tmpl)
		if e.Type == table.WireNumber {
			f, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
			if err != nil {
				return nil
			}
			return f
		}
		return out
	}
}

func parseAggFunc(s string) (memory.AggFunc, error) {
	switch fn := memory.AggFunc(strings.ToUpper(s)); fn {
	case memory.Sum, memory.Avg, memory.Min, memory.Max, memory.Count:
		return fn, nil
	}
	return "", fmt.Errorf("unknown aggregate function %q", s)
}
