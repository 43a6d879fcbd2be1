package memory

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/table"
)

// Table is an in-memory row source with a primary key index
type Table struct {
	mu           sync.RWMutex
	Name         string
	fields       []schema.Field
	pk           string
	rows         []data.Row
	index        map[any]int // primary key value -> row position
	relations    map[string]*Table
	lastInsertID int64
}

// NewTable creates a table. An AUTO field becomes the primary key; without
// one an "id" AUTO field is prepended.
func NewTable(name string, fields ...schema.Field) *Table {
	t := &Table{
		Name:      name,
		index:     make(map[any]int),
		relations: make(map[string]*Table),
	}
	for _, f := range fields {
		if f.Type == schema.FieldTypeAuto && t.pk == "" {
			t.pk = f.Name
		}
	}
	if t.pk == "" {
		t.pk = "id"
		t.fields = append(t.fields, schema.Field{Name: "id", Type: schema.FieldTypeAuto})
	}
	t.fields = append(t.fields, fields...)
	return t
}

// Fields implements schema.LocalSchema
func (t *Table) Fields() []schema.Field {
	out := make([]schema.Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// PrimaryKey returns the primary key column name
func (t *Table) PrimaryKey() string { return t.pk }

// Relate declares that the foreign key field owner points at target
func (t *Table) Relate(owner string, target *Table) error {
	f, ok := schema.FieldByKey(t, owner)
	if !ok {
		return &ColumnNotFoundError{TableName: t.Name, ColumnName: owner}
	}
	if f.Type != schema.FieldTypeForeignKey {
		return &ConstraintError{
			Table:      t.Name,
			Column:     owner,
			Constraint: "relation",
			Reason:     "only foreign key fields can be related",
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.relations[f.Name] = target
	return nil
}

// Related implements schema.JoinableSchema
func (t *Table) Related(owner string) (schema.LocalSchema, bool) {
	target, ok := t.relation(owner)
	if !ok {
		return nil, false
	}
	return target, true
}

func (t *Table) relation(owner string) (*Table, bool) {
	f, ok := schema.FieldByKey(t, owner)
	if !ok {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	target, ok := t.relations[f.Name]
	return target, ok
}

// Insert adds a new row with validation and auto-increment support
func (t *Table) Insert(mutRow data.Row) error {
	row := mutRow.Copy() // prevent mutation of caller's data

	// Acquire write lock for the entire operation
	t.mu.Lock()
	defer t.mu.Unlock()

	// 1. Handle auto-increment primary key FIRST (before validation)
	nextID := t.lastInsertID + 1
	if val, exists := row[t.pk]; exists && val != nil {
		userID, ok := normalizeToInt64(val)
		if !ok {
			return newTypeMismatch(t.Name, t.pk, val, "integer")
		}
		if _, dup := t.index[userID]; dup {
			return newPrimaryKeyViolation(t.Name, t.pk, userID)
		}
		nextID = userID
	}
	row[t.pk] = nextID
	if nextID > t.lastInsertID {
		t.lastInsertID = nextID
	}

	// 2. Validate the row (types, unknown columns)
	if err := t.validateRow(row); err != nil {
		return err
	}

	// 3. Append and index
	t.index[nextID] = len(t.rows)
	t.rows = append(t.rows, row)

	return nil
}

// SelectAll returns a snapshot of all rows
func (t *Table) SelectAll() []data.Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]data.Row, len(t.rows))
	for i, r := range t.rows {
		rows[i] = r.Copy()
	}
	return rows
}

// Get retrieves a row by primary key
func (t *Table) Get(pk any) (data.Row, bool) {
	id, ok := normalizeToInt64(pk)
	if !ok {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	pos, found := t.index[id]
	if !found {
		return nil, false
	}
	return t.rows[pos].Copy(), true
}

// Update modifies rows that match the predicate and returns how many changed
func (t *Table) Update(predicate func(data.Row) bool, updates data.Row) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := updates[t.pk]; ok {
		return 0, &ConstraintError{Table: t.Name, Column: t.pk, Constraint: "primary_key", Reason: "primary key is immutable"}
	}
	for colName, newValue := range updates {
		if err := t.validateValue(colName, newValue); err != nil {
			return 0, err
		}
	}

	count := 0
	for i, row := range t.rows {
		if !predicate(row) {
			continue
		}
		for colName, newValue := range updates {
			t.rows[i][colName] = newValue
		}
		count++
	}
	return count, nil
}

// Delete removes rows that match the predicate and returns how many went
func (t *Table) Delete(predicate func(data.Row) bool) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := make([]data.Row, 0, len(t.rows))
	deleted := 0
	for _, row := range t.rows {
		if predicate(row) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}

	if deleted > 0 {
		t.rows = kept
		t.rebuildIndexUnsafe()
		slog.Debug("rows deleted", "table", t.Name, "count", deleted)
	}
	return deleted, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// validateRow validates a row against the table fields
// Must be called while holding a lock
func (t *Table) validateRow(row data.Row) error {
	for colName, value := range row {
		if err := t.validateValue(colName, value); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) validateValue(colName string, value any) error {
	var field *schema.Field
	for i := range t.fields {
		if t.fields[i].Name == colName {
			field = &t.fields[i]
			break
		}
	}
	if field == nil {
		return &ColumnNotFoundError{TableName: t.Name, ColumnName: colName}
	}
	if value == nil {
		return nil
	}

	wt, err := table.MapFieldType(field.Type)
	if err != nil {
		return err
	}
	switch wt {
	case table.WireString:
		if _, ok := value.(string); !ok {
			return newTypeMismatch(t.Name, colName, value, "string")
		}
	case table.WireNumber:
		if !isNumber(value) {
			return newTypeMismatch(t.Name, colName, value, "number")
		}
	case table.WireBoolean:
		if _, ok := value.(bool); !ok {
			return newTypeMismatch(t.Name, colName, value, "bool")
		}
	case table.WireDate, table.WireDateTime:
		if _, ok := value.(time.Time); !ok {
			return newTypeMismatch(t.Name, colName, value, "time.Time")
		}
	case table.WireTimeOfDay:
		switch value.(type) {
		case table.TimeOfDay, time.Time:
		default:
			return newTypeMismatch(t.Name, colName, value, "time of day")
		}
	}
	return nil
}

// rebuildIndexUnsafe rebuilds the primary key index
// IMPORTANT: Must be called while holding write lock!
func (t *Table) rebuildIndexUnsafe() {
	t.index = make(map[any]int, len(t.rows))
	for pos, row := range t.rows {
		if id, ok := normalizeToInt64(row[t.pk]); ok {
			t.index[id] = pos
		}
	}
}

// normalizeToInt64 converts various numeric types to int64
// Returns the int64 value and true if successful, 0 and false otherwise
func normalizeToInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint32:
		return int64(v), true
	}
	return 0, false
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func (t *Table) String() string {
	return fmt.Sprintf("memory.Table(%s, %d rows)", t.Name, t.Len())
}
