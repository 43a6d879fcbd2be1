package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/table"
)

var founded = time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

// bakeryModel is the fixture most encoder tests share: one fully populated
// row and one row of NULLs
func bakeryModel(t *testing.T, opts ...table.BuildOption) *table.Model {
	t.Helper()
	desc := table.NewDescription([]table.Column{
		{Key: "name", Type: table.WireString, Label: "Name"},
		{Key: "baked", Type: table.WireNumber, Label: "Baked"},
		{Key: "founded", Type: table.WireDate, Label: "Founded"},
		{Key: "open", Type: table.WireBoolean},
	}, nil)
	rows := []data.Row{
		{"name": `Rat, "cakes"`, "baked": int64(1200), "founded": founded, "open": true},
		{},
	}
	m, err := table.Build(desc, rows, opts...)
	require.NoError(t, err)
	return m
}

func singleColumn(t *testing.T, wt table.WireType, values ...any) *table.Model {
	t.Helper()
	desc := table.NewDescription([]table.Column{{Key: "x", Type: wt}}, nil)
	rows := make([]data.Row, len(values))
	for i, v := range values {
		rows[i] = data.Row{"x": v}
	}
	m, err := table.Build(desc, rows)
	require.NoError(t, err)
	return m
}
