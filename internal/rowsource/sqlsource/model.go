// Package sqlsource exposes a database/sql table as a chart row source.
//
// The schema is declared up front as a Model; queries are assembled with
// squirrel and materialized before resolution starts. The source is read-only.
package sqlsource

import (
	"fmt"

	"github.com/leengari/gcharts/internal/domain/schema"
)

// Model declares a table and its fields
type Model struct {
	Table     string
	PK        string // defaults to "id"
	fields    []schema.Field
	relations map[string]*Model
}

// NewModel declares a table. Field Attname is used as the column name.
func NewModel(table string, fields ...schema.Field) *Model {
	return &Model{
		Table:     table,
		PK:        "id",
		fields:    append([]schema.Field(nil), fields...),
		relations: make(map[string]*Model),
	}
}

// Fields implements schema.LocalSchema
func (m *Model) Fields() []schema.Field {
	return append([]schema.Field(nil), m.fields...)
}

// Relate declares the foreign key field owner as pointing at target's PK
func (m *Model) Relate(owner string, target *Model) error {
	f, ok := schema.FieldByKey(m, owner)
	if !ok {
		return fmt.Errorf("model %s: no field %q", m.Table, owner)
	}
	if f.Type != schema.FieldTypeForeignKey {
		return fmt.Errorf("model %s: field %q is %s, not a foreign key", m.Table, owner, f.Type)
	}
	m.relations[f.Name] = target
	return nil
}

// Related implements schema.JoinableSchema
func (m *Model) Related(owner string) (schema.LocalSchema, bool) {
	target, ok := m.relation(owner)
	if !ok {
		return nil, false
	}
	return target, true
}

func (m *Model) relation(owner string) (*Model, bool) {
	f, ok := schema.FieldByKey(m, owner)
	if !ok {
		return nil, false
	}
	target, ok := m.relations[f.Name]
	return target, ok
}
