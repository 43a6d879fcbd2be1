package table

// Column is the resolved description of one output column
type Column struct {
	Key        string
	Type       WireType
	Label      string
	Properties map[string]any // optional custom properties
}

// Description is the ordered set of resolved columns.
// It is immutable once NewDescription returns.
type Description struct {
	columns []Column
	index   map[string]int
	dropped []string
}

// NewDescription builds a description from columns in resolution order.
// Later duplicates of a key are ignored. dropped lists requested keys that
// could not be resolved.
func NewDescription(columns []Column, dropped []string) *Description {
	d := &Description{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if _, exists := d.index[col.Key]; exists {
			continue
		}
		if col.Label == "" {
			col.Label = col.Key
		}
		d.index[col.Key] = len(d.columns)
		d.columns = append(d.columns, col)
	}
	if len(dropped) > 0 {
		d.dropped = append([]string(nil), dropped...)
	}
	return d
}

// Columns returns a copy of the columns in resolution order
func (d *Description) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Keys returns the column keys in resolution order
func (d *Description) Keys() []string {
	keys := make([]string, len(d.columns))
	for i, col := range d.columns {
		keys[i] = col.Key
	}
	return keys
}

// Column looks up a column by key
func (d *Description) Column(key string) (Column, bool) {
	i, ok := d.index[key]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Has reports whether key is a resolved column
func (d *Description) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Len returns the number of resolved columns
func (d *Description) Len() int { return len(d.columns) }

// Dropped returns the requested keys that matched no schema entry
func (d *Description) Dropped() []string {
	return append([]string(nil), d.dropped...)
}
