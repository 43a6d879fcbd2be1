// Package render encodes a table model into the output formats understood by
// chart pages and spreadsheet tools: DataTable JSON, JSON responses, CSV,
// UTF-16 TSV, HTML and JavaScript source.
//
// Every encoder is a pure function of the model and its options.
package render

import "github.com/leengari/gcharts/internal/table"

// Options are the formatting options shared by all encoders
type Options struct {
	// Masks maps column keys to display masks (see mask.go)
	Masks map[string]string
}

// cell is a coerced, ready-to-encode cell; nil cells are NULL
type cell struct {
	v  any
	f  *string
	p  map[string]any
	wt table.WireType
}

// prepared is the model flattened into emit order
type prepared struct {
	cols  []table.Column
	rows  [][]*cell
	props map[string]any
}

// prepare coerces every cell once, applying display masks
func prepare(m *table.Model, opts Options) (*prepared, error) {
	cols := m.Columns()

	masks := make([]*mask, len(cols))
	for i, col := range cols {
		tmpl, ok := opts.Masks[col.Key]
		if !ok {
			continue
		}
		mk, err := compileMask(col.Key, tmpl)
		if err != nil {
			return nil, err
		}
		masks[i] = mk
	}

	rows := make([][]*cell, len(m.Rows))
	for r, row := range m.Rows {
		cells := make([]*cell, len(cols))
		for c, col := range cols {
			raw := table.AsCell(row[col.Key])
			if raw.V == nil {
				// a null value still carries its formatted text and properties
				if raw.F != nil || len(raw.P) > 0 {
					cells[c] = &cell{f: raw.F, p: raw.P, wt: col.Type}
				}
				continue
			}
			v, ok := coerce(raw.V, col.Type)
			if !ok {
				return nil, valueTypeError(col, raw.V, r)
			}
			out := &cell{v: v, f: raw.F, p: raw.P, wt: col.Type}
			if out.f == nil && masks[c] != nil {
				f := masks[c].apply(v, col.Type)
				out.f = &f
			}
			cells[c] = out
		}
		rows[r] = cells
	}

	return &prepared{cols: cols, rows: rows, props: m.Properties}, nil
}

// display is the text shown for a cell in textual outputs
func (c *cell) display() string {
	if c == nil {
		return ""
	}
	if c.f != nil {
		return *c.f
	}
	if c.v == nil {
		return ""
	}
	return text(c.v, c.wt)
}
