package testutil

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/rowsource/memory"
)

// StubSource is a row source with a fixed schema and rows. Relations,
// aggregates and extras are optional capabilities.
type StubSource struct {
	LocalFields []schema.Field
	Relations   map[string]*StubSource
	Aggs        []schema.AggregateSpec
	Extras      []string
	Data        []data.Row
	// Reads counts Rows calls
	Reads int
}

func (s *StubSource) Fields() []schema.Field { return s.LocalFields }

func (s *StubSource) Related(owner string) (schema.LocalSchema, bool) {
	f, ok := schema.FieldByKey(s, owner)
	if !ok {
		return nil, false
	}
	target, ok := s.Relations[f.Name]
	if !ok {
		return nil, false
	}
	return target, true
}

func (s *StubSource) Aggregates() []schema.AggregateSpec { return s.Aggs }

func (s *StubSource) ExtraFields() []string { return s.Extras }

// Rows returns the stored rows restricted to keys
func (s *StubSource) Rows(keys []string) ([]data.Row, error) {
	s.Reads++
	out := make([]data.Row, len(s.Data))
	for i, r := range s.Data {
		row := make(data.Row, len(keys))
		for _, k := range keys {
			row[k] = r[k]
		}
		out[i] = row
	}
	return out, nil
}

// LocalOnly hides every optional capability of a source
type LocalOnly struct {
	Src schema.LocalSchema
}

func (l LocalOnly) Fields() []schema.Field { return l.Src.Fields() }

// CaptureLogger returns a debug level text logger writing to the buffer
func CaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// Day returns midnight UTC of the given date
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateContinentsTable creates a continents table with sample data
func CreateContinentsTable() *memory.Table {
	t := memory.NewTable("continents",
		schema.Field{Name: "id", Type: schema.FieldTypeAuto},
		schema.Field{Name: "name", Type: schema.FieldTypeChar},
	)
	for _, name := range []string{"Africa", "Europe"} {
		mustInsert(t, data.Row{"name": name})
	}
	return t
}

// CreateCountriesTables creates a countries table related to continents.
// The continent foreign key is stored as "continent_id".
func CreateCountriesTables() (countries, continents *memory.Table) {
	continents = CreateContinentsTable()
	countries = memory.NewTable("countries",
		schema.Field{Name: "id", Type: schema.FieldTypeAuto},
		schema.Field{Name: "name", Type: schema.FieldTypeChar},
		schema.Field{Name: "code", Type: schema.FieldTypeChar},
		schema.Field{Name: "continent", Attname: "continent_id", Type: schema.FieldTypeForeignKey},
		schema.Field{Name: "population", Type: schema.FieldTypeBigInt},
		schema.Field{Name: "independence", Type: schema.FieldTypeDate},
	)
	if err := countries.Relate("continent", continents); err != nil {
		panic(err)
	}

	mustInsert(countries, data.Row{"name": "Kenya", "code": "KE", "continent": int64(1), "population": int64(53000000), "independence": Day(1963, time.December, 12)})
	mustInsert(countries, data.Row{"name": "Nigeria", "code": "NG", "continent": int64(1), "population": int64(206000000), "independence": Day(1960, time.October, 1)})
	mustInsert(countries, data.Row{"name": "Norway", "code": "NO", "continent": int64(2), "population": int64(5400000), "independence": Day(1905, time.June, 7)})
	mustInsert(countries, data.Row{"name": "Atlantis", "code": "AT", "continent": nil, "population": nil, "independence": nil})
	return countries, continents
}

func mustInsert(t *memory.Table, row data.Row) {
	if err := t.Insert(row); err != nil {
		panic(err)
	}
}
