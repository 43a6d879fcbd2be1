// Package gcharts turns row sources into Google Charts DataTables.
//
// A QuerySet wraps a row source, resolves a typed table description from its
// schema and the caller's options, and serializes the rows as DataTable JSON,
// a data source JSON response, CSV, UTF-16 TSV, an HTML table or JavaScript.
// QuerySets are read-only: every write method fails.
//
//	qs := gcharts.New(source).Values("country_name", "population")
//	js, err := qs.ToJSON(gcharts.Options{
//		Labels: map[string]string{"population": "Population"},
//		Order:  []string{"country_name", "population"},
//	})
package gcharts

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/errors"
	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/guard"
	"github.com/leengari/gcharts/internal/render"
	"github.com/leengari/gcharts/internal/resolve"
	"github.com/leengari/gcharts/internal/table"
)

// Re-exported types so callers outside this module can build sources and
// options.
type (
	Row            = data.Row
	Field          = schema.Field
	FieldType      = schema.FieldType
	AggregateSpec  = schema.AggregateSpec
	WireType       = table.WireType
	Cell           = table.Cell
	TimeOfDay      = table.TimeOfDay
	Description    = table.Description
	Model          = table.Model
	ExtraFieldSpec = resolve.ExtraFieldSpec
)

// Wire types
const (
	WireString    = table.WireString
	WireNumber    = table.WireNumber
	WireBoolean   = table.WireBoolean
	WireDate      = table.WireDate
	WireDateTime  = table.WireDateTime
	WireTimeOfDay = table.WireTimeOfDay
)

// DefaultResponseHandler is used by ToJSONResponse unless overridden
const DefaultResponseHandler = render.DefaultResponseHandler

// Source is the row source collaborator: a schema plus materialized rows.
// Sources may also implement schema.JoinableSchema,
// schema.AggregatingSchema and schema.ExtraFieldSchema.
type Source interface {
	schema.LocalSchema
	// Rows returns every row holding exactly keys (missing values nil)
	Rows(keys []string) ([]data.Row, error)
}

// Options configure one serialization call
type Options struct {
	// Labels maps column keys to display labels
	Labels map[string]string
	// Order lists the columns to emit, in order. Columns not listed are
	// left out of the output.
	Order []string
	// Properties are table-level custom properties
	Properties map[string]any
	// ColumnProperties are per-column custom properties
	ColumnProperties map[string]map[string]any
	// ExtraFieldSpecs type and label every extra column of the source
	ExtraFieldSpecs map[string]ExtraFieldSpec
	// Masks are display masks per column, e.g. "{v:,d} Kg"
	Masks map[string]string
}

func (o Options) resolveOptions() resolve.Options {
	return resolve.Options{
		Labels:           o.Labels,
		ColumnProperties: o.ColumnProperties,
		ExtraFieldSpecs:  o.ExtraFieldSpecs,
	}
}

func (o Options) renderOptions() render.Options {
	return render.Options{Masks: o.Masks}
}

// ResponseOptions configure ToJSONResponse
type ResponseOptions struct {
	// ReqID is echoed back; defaults to "0"
	ReqID string
	// Handler defaults to DefaultResponseHandler
	Handler string
	// Bare returns the envelope without the handler call
	Bare bool
}

// resultShape selects how List reads rows back
type resultShape int

const (
	shapeRows resultShape = iota
	shapeTuple
	shapeFlat
)

// fieldLister is implemented by sources that carry their own selected fields
type fieldLister interface {
	FieldNames() []string
}

// QuerySet is a read-only chart view over a row source. Values and
// ValuesList return new QuerySets; the receiver is never modified.
type QuerySet struct {
	guard.ReadOnly

	src       Source
	fields    []string
	shape     resultShape
	observers []Observer
}

// New wraps src in a QuerySet
func New(src Source) *QuerySet {
	return &QuerySet{src: src}
}

func (q *QuerySet) clone() *QuerySet {
	return &QuerySet{
		src:       q.src,
		fields:    append([]string(nil), q.fields...),
		shape:     q.shape,
		observers: append([]Observer(nil), q.observers...),
	}
}

// Source returns the wrapped row source
func (q *QuerySet) Source() Source { return q.src }

// Values restricts the columns to fields; rows read back as keyed rows
func (q *QuerySet) Values(fields ...string) *QuerySet {
	c := q.clone()
	c.fields = append([]string(nil), fields...)
	c.shape = shapeRows
	return c
}

// ValuesList restricts the columns to fields; rows read back as positional
// tuples, or as bare values when flat is set. flat requires exactly one field.
func (q *QuerySet) ValuesList(flat bool, fields ...string) (*QuerySet, error) {
	if flat && len(fields) > 1 {
		return nil, &errors.ValuesListError{Fields: fields}
	}
	c := q.Values(fields...)
	c.shape = shapeTuple
	if flat {
		c.shape = shapeFlat
	}
	return c, nil
}

// requested returns the column keys this QuerySet asks the resolver for
func (q *QuerySet) requested() []string {
	if len(q.fields) > 0 {
		return q.fields
	}
	if fl, ok := q.src.(fieldLister); ok {
		return fl.FieldNames()
	}
	return nil
}

// Rows returns the selected rows as keyed rows
func (q *QuerySet) Rows() ([]Row, error) {
	keys := q.requested()
	if len(keys) == 0 {
		keys = schema.FieldNames(q.src)
	}
	return q.src.Rows(keys)
}

// List returns the selected rows in the shape chosen by Values or
// ValuesList: data.Row, []any tuples or bare values
func (q *QuerySet) List() ([]any, error) {
	rows, err := q.Rows()
	if err != nil {
		return nil, err
	}
	keys := q.requested()
	if len(keys) == 0 {
		keys = schema.FieldNames(q.src)
	}

	out := make([]any, len(rows))
	for i, row := range rows {
		switch q.shape {
		case shapeTuple:
			out[i] = table.Tuple(row, keys)
		case shapeFlat:
			out[i] = row[keys[0]]
		default:
			out[i] = row
		}
	}
	return out, nil
}

// Flat returns the single selected column of a flat ValuesList
func (q *QuerySet) Flat() ([]any, error) {
	if q.shape != shapeFlat {
		return nil, &errors.ValuesListError{Fields: q.requested()}
	}
	return q.List()
}

// Description resolves the table description for this QuerySet
func (q *QuerySet) Description(opts Options) (*Description, error) {
	return resolve.Resolve(q.src, q.requested(), opts.resolveOptions())
}

// Model resolves the description and materializes the rows
func (q *QuerySet) Model(opts Options) (*Model, error) {
	return q.model(uuid.NewString(), opts)
}

func (q *QuerySet) model(callID string, opts Options) (*Model, error) {
	q.emit(Event{Type: EventResolveStart, CallID: callID, Data: q.requested()})
	desc, err := q.Description(opts)
	if err != nil {
		q.emit(Event{Type: EventResolveEnd, CallID: callID, Err: err})
		return nil, err
	}
	q.emit(Event{Type: EventResolveEnd, CallID: callID, Data: desc.Keys()})

	q.emit(Event{Type: EventBuildStart, CallID: callID})
	m, err := q.build(desc, opts)
	if err != nil {
		q.emit(Event{Type: EventBuildEnd, CallID: callID, Err: err})
		return nil, err
	}
	q.emit(Event{Type: EventBuildEnd, CallID: callID, Data: len(m.Rows)})
	return m, nil
}

func (q *QuerySet) build(desc *Description, opts Options) (*Model, error) {
	records, err := q.src.Rows(desc.Keys())
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return table.Build(desc, records,
		table.WithOrder(opts.Order...),
		table.WithProperties(opts.Properties),
	)
}

// encode runs one serialization call, emitting lifecycle events
func encode[T any](q *QuerySet, format string, opts Options, fn func(*Model) (T, error)) (T, error) {
	var zero T
	callID := uuid.NewString()

	m, err := q.model(callID, opts)
	if err != nil {
		return zero, err
	}

	q.emit(Event{Type: EventEncodeStart, CallID: callID, Format: format})
	out, err := fn(m)
	if err != nil {
		q.emit(Event{Type: EventEncodeEnd, CallID: callID, Format: format, Err: err})
		return zero, err
	}
	q.emit(Event{Type: EventEncodeEnd, CallID: callID, Format: format})
	return out, nil
}

// ToJSON encodes the DataTable JSON literal
func (q *QuerySet) ToJSON(opts Options) (string, error) {
	return encode(q, "json", opts, func(m *Model) (string, error) {
		return render.JSON(m, opts.renderOptions())
	})
}

// ToJSONResponse encodes a data source response. The envelope is wrapped in
// a call to ro.Handler (default DefaultResponseHandler) unless ro.Bare is set.
func (q *QuerySet) ToJSONResponse(opts Options, ro ResponseOptions) (string, error) {
	handler := ro.Handler
	switch {
	case ro.Bare:
		handler = ""
	case handler == "":
		handler = DefaultResponseHandler
	}
	return encode(q, "response", opts, func(m *Model) (string, error) {
		return render.JSONResponse(m, render.ResponseOptions{
			Options: opts.renderOptions(),
			ReqID:   ro.ReqID,
			Handler: handler,
		})
	})
}

// ToCSV encodes CSV; a zero sep means ','
func (q *QuerySet) ToCSV(opts Options, sep rune) (string, error) {
	return encode(q, "csv", opts, func(m *Model) (string, error) {
		return render.CSV(m, render.CSVOptions{Options: opts.renderOptions(), Separator: sep})
	})
}

// ToTSVExcel encodes tab separated UTF-16LE with a byte order mark
func (q *QuerySet) ToTSVExcel(opts Options) ([]byte, error) {
	return encode(q, "tsv", opts, func(m *Model) ([]byte, error) {
		return render.TSVExcel(m, opts.renderOptions())
	})
}

// ToHTML encodes a plain HTML table
func (q *QuerySet) ToHTML(opts Options) (string, error) {
	return encode(q, "html", opts, func(m *Model) (string, error) {
		return render.HTML(m, opts.renderOptions())
	})
}

// ToJavaScript encodes JavaScript building a DataTable assigned to name
func (q *QuerySet) ToJavaScript(name string, opts Options) (string, error) {
	return encode(q, "js", opts, func(m *Model) (string, error) {
		return render.JavaScript(m, name, opts.renderOptions())
	})
}

// AddObserver registers an observer for lifecycle events
func (q *QuerySet) AddObserver(o Observer) {
	q.observers = append(q.observers, o)
}

// RemoveObserver unregisters an observer
func (q *QuerySet) RemoveObserver(o Observer) {
	for i, obs := range q.observers {
		if obs == o {
			q.observers = append(q.observers[:i], q.observers[i+1:]...)
			return
		}
	}
}

func (q *QuerySet) emit(event Event) {
	if len(q.observers) == 0 {
		return
	}
	event.Timestamp = time.Now()
	for _, o := range q.observers {
		o.OnEvent(event)
	}
}

// Manager is the entry point bound to one row source, mirroring a model's
// default manager: every QuerySet method is available on it directly.
type Manager struct {
	*QuerySet
}

// NewManager creates a Manager for src
func NewManager(src Source) *Manager {
	return &Manager{QuerySet: New(src)}
}

// All returns a fresh QuerySet over every row
func (m *Manager) All() *QuerySet {
	return m.QuerySet.clone()
}
