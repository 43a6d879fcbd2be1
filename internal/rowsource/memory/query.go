package memory

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/schema"
)

// AggFunc names an aggregate function
type AggFunc string

const (
	Sum   AggFunc = "SUM"
	Avg   AggFunc = "AVG"
	Min   AggFunc = "MIN"
	Max   AggFunc = "MAX"
	Count AggFunc = "COUNT"
)

// Aggregate is an annotation computed per group of rows
type Aggregate struct {
	Func  AggFunc
	Field string
	Alias string // defaults to "<field>__<func>", e.g. "number1__sum"
}

// Name returns the alias the aggregate is exposed under
func (a Aggregate) Name() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.Field + "__" + strings.ToLower(string(a.Func))
}

type extra struct {
	name string
	fn   func(data.Row) any
}

// Query is a read view over a table: selected fields, annotations and
// extra computed columns. Queries are immutable; every method returns a copy.
type Query struct {
	table      *Table
	fields     []string
	aggregates []Aggregate
	extras     []extra
	filters    []func(data.Row) bool
	orderBy    []string
	limit      int
}

// Query starts a read view over the whole table
func (t *Table) Query() *Query {
	return &Query{table: t}
}

func (q *Query) clone() *Query {
	return &Query{
		table:      q.table,
		fields:     append([]string(nil), q.fields...),
		aggregates: append([]Aggregate(nil), q.aggregates...),
		extras:     append([]extra(nil), q.extras...),
		filters:    append([]func(data.Row) bool(nil), q.filters...),
		orderBy:    append([]string(nil), q.orderBy...),
		limit:      q.limit,
	}
}

// Values restricts the view to fields; with annotations they become the
// grouping columns
func (q *Query) Values(fields ...string) *Query {
	c := q.clone()
	c.fields = append([]string(nil), fields...)
	return c
}

// Annotate adds aggregate columns
func (q *Query) Annotate(aggs ...Aggregate) *Query {
	c := q.clone()
	c.aggregates = append(c.aggregates, aggs...)
	return c
}

// Extra adds a computed column evaluated against each source row
func (q *Query) Extra(name string, fn func(data.Row) any) *Query {
	c := q.clone()
	c.extras = append(c.extras, extra{name: name, fn: fn})
	return c
}

// Filter keeps only source rows matching pred. Filters apply before grouping.
func (q *Query) Filter(pred func(data.Row) bool) *Query {
	c := q.clone()
	c.filters = append(c.filters, pred)
	return c
}

// OrderBy sorts the result by keys; a leading "-" sorts descending.
// Nil values sort first.
func (q *Query) OrderBy(keys ...string) *Query {
	c := q.clone()
	c.orderBy = append([]string(nil), keys...)
	return c
}

// Limit caps the number of result rows; 0 means no limit
func (q *Query) Limit(n int) *Query {
	c := q.clone()
	c.limit = n
	return c
}

// Table returns the queried table
func (q *Query) Table() *Table { return q.table }

// FieldNames returns the Values fields, or every local field
func (q *Query) FieldNames() []string {
	if len(q.fields) > 0 {
		return append([]string(nil), q.fields...)
	}
	return schema.FieldNames(q.table)
}

// Fields implements schema.LocalSchema
func (q *Query) Fields() []schema.Field { return q.table.Fields() }

// Related implements schema.JoinableSchema
func (q *Query) Related(owner string) (schema.LocalSchema, bool) {
	return q.table.Related(owner)
}

// Aggregates implements schema.AggregatingSchema
func (q *Query) Aggregates() []schema.AggregateSpec {
	specs := make([]schema.AggregateSpec, 0, len(q.aggregates))
	for _, a := range q.aggregates {
		specs = append(specs, schema.AggregateSpec{Alias: a.Name(), Type: q.aggregateType(a)})
	}
	return specs
}

func (q *Query) aggregateType(a Aggregate) schema.FieldType {
	switch a.Func {
	case Count:
		return schema.FieldTypeInt
	case Avg:
		return schema.FieldTypeFloat
	}
	if f, ok := schema.FieldByKey(q.table, a.Field); ok {
		return f.Type
	}
	// unknown source field: surfaces as an unknown field type during resolution
	return schema.FieldType("")
}

// ExtraFields implements schema.ExtraFieldSchema
func (q *Query) ExtraFields() []string {
	names := make([]string, len(q.extras))
	for i, e := range q.extras {
		names[i] = e.name
	}
	return names
}

// Rows materializes the view, returning one row per source row (or per group
// when annotated) holding exactly keys
func (q *Query) Rows(keys []string) ([]data.Row, error) {
	source := q.filter(q.table.SelectAll())

	full := make([]data.Row, len(source))
	for i, row := range source {
		r, err := q.expand(row, keys)
		if err != nil {
			return nil, err
		}
		full[i] = r
	}

	if len(q.aggregates) > 0 {
		var err error
		full, err = q.group(source, full)
		if err != nil {
			return nil, err
		}
	}

	if err := q.sort(full); err != nil {
		return nil, err
	}
	if q.limit > 0 && len(full) > q.limit {
		full = full[:q.limit]
	}

	out := make([]data.Row, len(full))
	for i, r := range full {
		projected := make(data.Row, len(keys))
		for _, key := range keys {
			projected[key] = r[key]
		}
		out[i] = projected
	}
	return out, nil
}

func (q *Query) filter(rows []data.Row) []data.Row {
	if len(q.filters) == 0 {
		return rows
	}
	kept := rows[:0]
	for _, row := range rows {
		if q.matches(row) {
			kept = append(kept, row)
		}
	}
	return kept
}

func (q *Query) matches(row data.Row) bool {
	for _, pred := range q.filters {
		if !pred(row) {
			return false
		}
	}
	return true
}

// sort orders rows by the OrderBy keys, keeping equal rows stable
func (q *Query) sort(rows []data.Row) error {
	if len(q.orderBy) == 0 {
		return nil
	}
	var sortErr error
	slices.SortStableFunc(rows, func(a, b data.Row) int {
		for _, key := range q.orderBy {
			desc := strings.HasPrefix(key, "-")
			key = strings.TrimPrefix(key, "-")
			c, err := compareNullable(a[key], b[key])
			if err != nil && sortErr == nil {
				sortErr = fmt.Errorf("order by %s: %w", key, err)
			}
			if c != 0 {
				if desc {
					return -c
				}
				return c
			}
		}
		return 0
	})
	return sortErr
}

func compareNullable(x, y any) (int, error) {
	switch {
	case x == nil && y == nil:
		return 0, nil
	case x == nil:
		return -1, nil
	case y == nil:
		return 1, nil
	}
	return compare(x, y)
}

// expand adds joined and extra values to a source row
func (q *Query) expand(row data.Row, keys []string) (data.Row, error) {
	out := row.Copy()
	for _, f := range q.table.fields {
		if f.Attname != "" && f.Attname != f.Name {
			out[f.Attname] = row[f.Name]
		}
	}
	for _, key := range keys {
		if _, ok := out[key]; ok {
			continue
		}
		if _, _, joined := data.SplitQualified(key); joined {
			v, err := q.table.follow(row, key)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
	}
	for _, e := range q.extras {
		out[e.name] = e.fn(row)
	}
	return out, nil
}

// follow walks a relation chain such as "country__continent__name".
// A missing related row yields nil.
func (t *Table) follow(row data.Row, key string) (any, error) {
	current, cur := t, row
	rest := key
	for {
		owner, related, ok := data.SplitQualified(rest)
		if !ok {
			return cur[rest], nil
		}
		if _, local := schema.FieldByKey(current, rest); local {
			return cur[rest], nil
		}
		target, ok := current.relation(owner)
		if !ok {
			return nil, nil
		}
		f, _ := schema.FieldByKey(current, owner)
		next, found := target.Get(cur[f.Name])
		if !found {
			return nil, nil
		}
		current, cur, rest = target, next, related
	}
}

// group collapses rows sharing the Values fields and computes annotations.
// Without Values fields every row is its own group.
func (q *Query) group(source, full []data.Row) ([]data.Row, error) {
	type bucket struct {
		first data.Row
		rows  []data.Row
	}

	var order []string
	buckets := make(map[string]*bucket)
	for i, row := range full {
		var key string
		if len(q.fields) == 0 {
			key = fmt.Sprint(row[q.table.pk])
		} else {
			parts := make([]string, len(q.fields))
			for j, f := range q.fields {
				parts[j] = groupKey(row[f])
			}
			key = strings.Join(parts, "\x1f")
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{first: row}
			buckets[key] = b
			order = append(order, key)
		}
		b.rows = append(b.rows, source[i])
	}

	out := make([]data.Row, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		row := b.first.Copy()
		for _, a := range q.aggregates {
			v, err := aggregate(a, b.rows)
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", q.table.Name, err)
			}
			row[a.Name()] = v
		}
		out = append(out, row)
	}
	return out, nil
}

func groupKey(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%T:%v", v, v)
}
