package schema

// LocalSchema is implemented by every row source: the columns it stores itself
type LocalSchema interface {
	// Fields returns the local fields in declaration order
	Fields() []Field
}

// JoinableSchema is implemented by row sources that can follow relations.
// Related returns the schema on the other side of the relation held by the
// owner field, and false when owner is not a relation.
type JoinableSchema interface {
	Related(owner string) (LocalSchema, bool)
}

// AggregatingSchema is implemented by row sources with aggregate aliases
type AggregatingSchema interface {
	Aggregates() []AggregateSpec
}

// ExtraFieldSchema is implemented by row sources with ad-hoc computed
// columns. Extra columns carry no native type.
type ExtraFieldSchema interface {
	ExtraFields() []string
}

// FieldByKey finds the local field addressed by key (logical or storage name)
func FieldByKey(s LocalSchema, key string) (Field, bool) {
	for _, f := range s.Fields() {
		if f.Matches(key) {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the logical names of all local fields
func FieldNames(s LocalSchema) []string {
	fields := s.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
