package memory

import (
	"fmt"
	"strings"
)

// ConstraintError represents a violation of a table constraint
// (primary key, type mismatch, relation)
type ConstraintError struct {
	Table      string // table name
	Column     string // column name (empty if table-level constraint)
	Value      any    // offending value (may be nil)
	Constraint string // "primary_key", "type_mismatch", "relation", etc.
	Reason     string // human-readable explanation (optional)
}

func (e *ConstraintError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("constraint violation in %s.%s", e.Table, e.Column))

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}

	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	return strings.Join(parts, " - ")
}

func newPrimaryKeyViolation(table, column string, value any) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Constraint: "primary_key",
		Reason:     "duplicate primary key",
	}
}

func newTypeMismatch(table, column string, value any, expected string) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Constraint: "type_mismatch",
		Reason:     fmt.Sprintf("expected %s, got %T", expected, value),
	}
}

// ColumnNotFoundError is returned when a write names a column the table lacks
type ColumnNotFoundError struct {
	TableName  string
	ColumnName string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q does not exist in table %q", e.ColumnName, e.TableName)
}
