package data

import "strings"

// Row represents a single result row
// Key = column key, Value = cell value (nil for NULL)
type Row map[string]any

// Copy creates a shallow copy of the row to prevent mutation
func (r Row) Copy() Row {
	cp := make(Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// Get retrieves a value by column key
func (r Row) Get(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// Qualify builds a joined column key from an owner field and a related key
// (e.g. "country" + "name" => "country__name")
func Qualify(owner, related string) string {
	return owner + "__" + related
}

// SplitQualified splits a joined key at its first separator.
// ok is false for plain keys.
func SplitQualified(key string) (owner, rest string, ok bool) {
	return strings.Cut(key, "__")
}
