package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/schema"
)

// AggFunc is an SQL aggregate function
type AggFunc string

const (
	Sum   AggFunc = "SUM"
	Avg   AggFunc = "AVG"
	Min   AggFunc = "MIN"
	Max   AggFunc = "MAX"
	Count AggFunc = "COUNT"
)

// Aggregate is an annotation computed by the database
type Aggregate struct {
	Func  AggFunc
	Field string
	Alias string // defaults to "<field>__<func>"
}

// Name returns the alias the aggregate is exposed under
func (a Aggregate) Name() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.Field + "__" + strings.ToLower(string(a.Func))
}

// Extra is a raw SQL expression exposed as a column
type Extra struct {
	Name string
	Expr string
}

// Query is an immutable read view over a model
type Query struct {
	db         *sql.DB
	model      *Model
	fields     []string
	aggregates []Aggregate
	extras     []Extra
	where      []sq.Sqlizer
	orderBy    []string
	limit      uint64
}

// Query starts a read view over the model using db
func (m *Model) Query(db *sql.DB) *Query {
	return &Query{db: db, model: m}
}

func (q *Query) clone() *Query {
	c := *q
	c.fields = append([]string(nil), q.fields...)
	c.aggregates = append([]Aggregate(nil), q.aggregates...)
	c.extras = append([]Extra(nil), q.extras...)
	c.where = append([]sq.Sqlizer(nil), q.where...)
	c.orderBy = append([]string(nil), q.orderBy...)
	return &c
}

// Values restricts the view to fields (grouping columns when annotated)
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

// Extra adds raw SQL expression columns
func (q *Query) Extra(extras ...Extra) *Query {
	c := q.clone()
	c.extras = append(c.extras, extras...)
	return c
}

// Where adds a filter; columns of the base table are prefixed "t0."
func (q *Query) Where(pred sq.Sqlizer) *Query {
	c := q.clone()
	c.where = append(c.where, pred)
	return c
}

// OrderBy adds ORDER BY clauses verbatim
func (q *Query) OrderBy(clauses ...string) *Query {
	c := q.clone()
	c.orderBy = append(c.orderBy, clauses...)
	return c
}

// Limit caps the number of rows
func (q *Query) Limit(n uint64) *Query {
	c := q.clone()
	c.limit = n
	return c
}

// FieldNames returns the Values fields, or every model field
func (q *Query) FieldNames() []string {
	if len(q.fields) > 0 {
		return append([]string(nil), q.fields...)
	}
	return schema.FieldNames(q.model)
}

// Fields implements schema.LocalSchema
func (q *Query) Fields() []schema.Field { return q.model.Fields() }

// Related implements schema.JoinableSchema
func (q *Query) Related(owner string) (schema.LocalSchema, bool) {
	return q.model.Related(owner)
}

// Aggregates implements schema.AggregatingSchema
func (q *Query) Aggregates() []schema.AggregateSpec {
	specs := make([]schema.AggregateSpec, len(q.aggregates))
	for i, a := range q.aggregates {
		specs[i] = schema.AggregateSpec{Alias: a.Name(), Type: q.aggregateType(a)}
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
	if f, ok := schema.FieldByKey(q.model, a.Field); ok {
		return f.Type
	}
	return schema.FieldType("")
}

// ExtraFields implements schema.ExtraFieldSchema
func (q *Query) ExtraFields() []string {
	names := make([]string, len(q.extras))
	for i, e := range q.extras {
		names[i] = e.Name
	}
	return names
}

// Rows materializes the view for keys
func (q *Query) Rows(keys []string) ([]data.Row, error) {
	return q.RowsContext(context.Background(), keys)
}

// RowsContext runs the query and returns rows holding exactly keys
func (q *Query) RowsContext(ctx context.Context, keys []string) ([]data.Row, error) {
	b, err := q.build(keys)
	if err != nil {
		return nil, err
	}
	query, args, err := b.builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query for %s: %w", q.model.Table, err)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.model.Table, err)
	}
	defer rows.Close()

	var out []data.Row
	for rows.Next() {
		values := make([]any, len(b.keys))
		ptrs := make([]any, len(b.keys))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.model.Table, err)
		}

		row := make(data.Row, len(keys))
		for _, key := range keys {
			row[key] = nil
		}
		for i, key := range b.keys {
			v, err := normalizeValue(values[i], b.types[key])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", key, err)
			}
			row[key] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", q.model.Table, err)
	}
	return out, nil
}
