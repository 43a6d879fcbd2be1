package table

import (
	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/errors"
)

// Model is a resolved table snapshot ready for encoding
type Model struct {
	Description *Description
	Rows        []data.Row
	// Order is the display projection; nil means description order
	Order      []string
	Properties map[string]any
}

// BuildOption configures Build
type BuildOption func(*buildConfig)

type buildConfig struct {
	order      []string
	properties map[string]any
}

// WithOrder sets the display column order. Columns not listed are excluded
// from output but stay in the description.
func WithOrder(keys ...string) BuildOption {
	return func(c *buildConfig) {
		if len(keys) > 0 {
			c.order = append([]string(nil), keys...)
		}
	}
}

// WithProperties sets table-level custom properties
func WithProperties(props map[string]any) BuildOption {
	return func(c *buildConfig) {
		if len(props) > 0 {
			c.properties = props
		}
	}
}

// Build projects rows onto the description keys and validates the order
func Build(desc *Description, rows []data.Row, opts ...BuildOption) (*Model, error) {
	cfg := buildConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	// 1. Validate order before touching rows
	var unknown, duplicate []string
	seen := make(map[string]int, len(cfg.order))
	for _, key := range cfg.order {
		seen[key]++
		switch {
		case !desc.Has(key):
			if seen[key] == 1 {
				unknown = append(unknown, key)
			}
		case seen[key] == 2:
			duplicate = append(duplicate, key)
		}
	}
	if len(unknown) > 0 || len(duplicate) > 0 {
		return nil, &errors.InvalidColumnOrderError{Unknown: unknown, Duplicate: duplicate}
	}

	// 2. Project every row down to the description
	projected, err := ProjectAll(rows, ProjectColumns(desc.Keys()...))
	if err != nil {
		return nil, err
	}

	return &Model{
		Description: desc,
		Rows:        projected,
		Order:       cfg.order,
		Properties:  cfg.properties,
	}, nil
}

// Columns returns the columns to emit, honoring Order
func (m *Model) Columns() []Column {
	if m.Order == nil {
		return m.Description.Columns()
	}
	cols := make([]Column, 0, len(m.Order))
	for _, key := range m.Order {
		if col, ok := m.Description.Column(key); ok {
			cols = append(cols, col)
		}
	}
	return cols
}
