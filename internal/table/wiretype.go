package table

import (
	"slices"

	"github.com/leengari/gcharts/internal/domain/errors"
	"github.com/leengari/gcharts/internal/domain/schema"
)

// WireType is the value category a chart consumer understands
type WireType string

const (
	WireString    WireType = "string"
	WireNumber    WireType = "number"
	WireBoolean   WireType = "boolean"
	WireDate      WireType = "date"
	WireDateTime  WireType = "datetime"
	WireTimeOfDay WireType = "timeofday"
)

// Valid reports whether t is one of the six wire types
func (t WireType) Valid() bool {
	switch t {
	case WireString, WireNumber, WireBoolean, WireDate, WireDateTime, WireTimeOfDay:
		return true
	}
	return false
}

func (t WireType) String() string { return string(t) }

var fieldTypes = map[schema.FieldType]WireType{
	schema.FieldTypeChar:              WireString,
	schema.FieldTypeText:              WireString,
	schema.FieldTypeEmail:             WireString,
	schema.FieldTypeSlug:              WireString,
	schema.FieldTypeURL:               WireString,
	schema.FieldTypeIPAddress:         WireString,
	schema.FieldTypeGenericIPAddress:  WireString,
	schema.FieldTypeFilePath:          WireString,
	schema.FieldTypeCommaSeparatedInt: WireString,
	schema.FieldTypeUUID:              WireString,

	schema.FieldTypeAuto:             WireNumber,
	schema.FieldTypeInt:              WireNumber,
	schema.FieldTypeSmallInt:         WireNumber,
	schema.FieldTypeBigInt:           WireNumber,
	schema.FieldTypePositiveInt:      WireNumber,
	schema.FieldTypePositiveSmallInt: WireNumber,
	schema.FieldTypeFloat:            WireNumber,
	schema.FieldTypeDecimal:          WireNumber,
	schema.FieldTypeForeignKey:       WireNumber,

	schema.FieldTypeBool:     WireBoolean,
	schema.FieldTypeNullBool: WireBoolean,

	schema.FieldTypeDate:     WireDate,
	schema.FieldTypeDateTime: WireDateTime,
	schema.FieldTypeTime:     WireTimeOfDay,
}

// MapFieldType returns the wire type for a native field type tag.
// An unknown tag means the row source broke its contract.
func MapFieldType(ft schema.FieldType) (WireType, error) {
	if wt, ok := fieldTypes[ft]; ok {
		return wt, nil
	}
	return "", &errors.UnknownFieldTypeError{Type: string(ft)}
}

// KnownFieldTypes returns every native tag the mapper accepts
func KnownFieldTypes() []schema.FieldType {
	out := make([]schema.FieldType, 0, len(fieldTypes))
	for ft := range fieldTypes {
		out = append(out, ft)
	}
	slices.Sort(out)
	return out
}
