package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is; every typed error below matches exactly one
var (
	ErrUnknownFieldType        = errors.New("unknown field type")
	ErrMissingExtraFieldSpec   = errors.New("missing extra field spec")
	ErrMalformedExtraFieldSpec = errors.New("malformed extra field spec")
	ErrInvalidColumnOrder      = errors.New("invalid column order")
	ErrUnsupportedOperation    = errors.New("unsupported operation")
	ErrValueType               = errors.New("value type mismatch")
	ErrValuesList              = errors.New("invalid values list")
)

// UnknownFieldTypeError is returned when a row source exposes a native type
// outside the known mapping table
type UnknownFieldTypeError struct {
	Field string // column key (empty if unknown)
	Type  string // offending native type tag
}

func (e *UnknownFieldTypeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%q is not a valid field type", e.Type)
	}
	return fmt.Sprintf("field %q: %q is not a valid field type", e.Field, e.Type)
}

func (e *UnknownFieldTypeError) Unwrap() error { return ErrUnknownFieldType }

// ExtraFieldSpecError reports an extra column whose caller-supplied spec is
// missing or malformed
type ExtraFieldSpecError struct {
	Key     string
	Type    string // offending wire type, empty when Missing
	Missing bool
}

func (e *ExtraFieldSpecError) Error() string {
	if e.Missing {
		return fmt.Sprintf("extra field %q requires a type and label spec", e.Key)
	}
	return fmt.Sprintf("extra field %q: %q is not a valid wire type", e.Key, e.Type)
}

func (e *ExtraFieldSpecError) Unwrap() error {
	if e.Missing {
		return ErrMissingExtraFieldSpec
	}
	return ErrMalformedExtraFieldSpec
}

// NewMissingExtraFieldSpec creates the error for an extra column without a spec
func NewMissingExtraFieldSpec(key string) *ExtraFieldSpecError {
	return &ExtraFieldSpecError{Key: key, Missing: true}
}

// NewMalformedExtraFieldSpec creates the error for an extra spec with a bad type
func NewMalformedExtraFieldSpec(key, wireType string) *ExtraFieldSpecError {
	return &ExtraFieldSpecError{Key: key, Type: wireType}
}

// InvalidColumnOrderError lists order keys absent from the table description
// and keys named more than once
type InvalidColumnOrderError struct {
	Unknown   []string
	Duplicate []string
}

func (e *InvalidColumnOrderError) Error() string {
	var parts []string
	if len(e.Unknown) > 0 {
		parts = append(parts, "unknown columns: "+strings.Join(e.Unknown, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate columns: "+strings.Join(e.Duplicate, ", "))
	}
	return fmt.Sprintf("column order references %s", strings.Join(parts, "; "))
}

func (e *InvalidColumnOrderError) Unwrap() error { return ErrInvalidColumnOrder }

// UnsupportedOperationError is returned for any write attempted through the
// read-only chart adapter
type UnsupportedOperationError struct {
	Op string // "create", "bulk_create", "get_or_create", "update", "delete"
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: chart query sets are not able to modify the row source", e.Op)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }

// ValueTypeError reports a cell value that cannot be coerced to its column's
// wire type
type ValueTypeError struct {
	Column   string
	Value    any
	WireType string
	RowIndex int // 0-based, -1 if unknown
}

func (e *ValueTypeError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("column %q", e.Column))
	parts = append(parts, fmt.Sprintf("value=%v (%T)", e.Value, e.Value))
	parts = append(parts, fmt.Sprintf("not coercible to %s", e.WireType))

	if e.RowIndex >= 0 {
		parts = append(parts, fmt.Sprintf("at row %d", e.RowIndex))
	}

	return strings.Join(parts, " - ")
}

func (e *ValueTypeError) Unwrap() error { return ErrValueType }

// ValuesListError is returned when flat values lists are requested for more
// than one field
type ValuesListError struct {
	Fields []string
}

func (e *ValuesListError) Error() string {
	return fmt.Sprintf("flat is not valid when values list is called with more than one field (%s)", strings.Join(e.Fields, ", "))
}

func (e *ValuesListError) Unwrap() error { return ErrValuesList }
