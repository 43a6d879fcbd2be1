package gcharts_test

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/leengari/gcharts/gcharts"
	"github.com/leengari/gcharts/internal/domain/errors"
	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/rowsource/memory"
	"github.com/leengari/gcharts/internal/rowsource/sqlsource"
	"github.com/leengari/gcharts/internal/testutil"
)

func ratesSource() *testutil.StubSource {
	return &testutil.StubSource{
		LocalFields: []schema.Field{
			{Name: "name", Type: schema.FieldTypeChar},
			{Name: "population", Type: schema.FieldTypeInt},
			{Name: "rate", Type: schema.FieldTypeFloat},
		},
		Data: []gcharts.Row{{"name": "NO", "population": int64(5), "rate": 1.8}},
	}
}

func TestToJSON_EndToEnd(t *testing.T) {
	out, err := gcharts.New(ratesSource()).ToJSON(gcharts.Options{
		Order: []string{"name", "population"},
	})
	require.NoError(t, err)

	want := `{"cols":[` +
		`{"id":"name","label":"name","type":"string"},` +
		`{"id":"population","label":"population","type":"number"}],` +
		`"rows":[{"c":[{"v":"NO"},{"v":5}]}]}`
	assert.Equal(t, want, out)
}

func TestToJSON_Idempotent(t *testing.T) {
	qs := gcharts.New(ratesSource())
	opts := gcharts.Options{Masks: map[string]string{"rate": "{v:.3f}"}}

	first, err := qs.ToJSON(opts)
	require.NoError(t, err)
	second, err := qs.ToJSON(opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "1.800", gjson.Get(first, "rows.0.c.2.f").String())
}

func TestToJSON_JoinedAggregates(t *testing.T) {
	countries, _ := testutil.CreateCountriesTables()
	q := countries.Query().
		Values("continent__name").
		Annotate(memory.Aggregate{Func: memory.Sum, Field: "population"})

	out, err := gcharts.New(q).ToJSON(gcharts.Options{
		Labels: map[string]string{"continent__name": "Continent"},
		Order:  []string{"continent__name", "population__sum"},
		Masks:  map[string]string{"population__sum": "{v:,d} people"},
	})
	require.NoError(t, err)

	doc := gjson.Parse(out)
	assert.Equal(t, `["Continent","population__sum"]`, doc.Get("cols.#.label").Raw)
	assert.Equal(t, `["string","number"]`, doc.Get("cols.#.type").Raw)
	assert.Equal(t, `{"v":259000000,"f":"259,000,000 people"}`, doc.Get("rows.0.c.1").Raw)
	assert.Equal(t, "Europe", doc.Get("rows.1.c.0.v").String())
	assert.Equal(t, `[null,null]`, doc.Get("rows.2.c").Raw)
}

func TestToJSON_InvalidOrder(t *testing.T) {
	_, err := gcharts.New(ratesSource()).ToJSON(gcharts.Options{Order: []string{"colX"}})
	assert.ErrorIs(t, err, errors.ErrInvalidColumnOrder)
}

func TestToJSON_ExtraFields(t *testing.T) {
	countries, _ := testutil.CreateCountriesTables()
	q := countries.Query().
		Values("code").
		Extra("shout", func(r gcharts.Row) any { return r["code"].(string) + "!" })
	qs := gcharts.New(q)

	_, err := qs.ToJSON(gcharts.Options{})
	assert.ErrorIs(t, err, errors.ErrMissingExtraFieldSpec)

	out, err := qs.ToJSON(gcharts.Options{
		ExtraFieldSpecs: map[string]gcharts.ExtraFieldSpec{
			"shout": {Type: gcharts.WireString, Label: "Shout"},
		},
		Order: []string{"code", "shout"},
	})
	require.NoError(t, err)
	assert.Equal(t, `["KE","KE!"]`, gjson.Get(out, "rows.0.c.#.v").Raw)
	assert.Equal(t, "Shout", gjson.Get(out, "cols.1.label").String())
}

func TestDescription_DropsUnresolvableColumns(t *testing.T) {
	qs := gcharts.New(ratesSource()).Values("name", "nonexistent_field")

	desc, err := qs.Description(gcharts.Options{Labels: map[string]string{"name": "Country"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, desc.Keys())
	assert.Equal(t, []string{"nonexistent_field"}, desc.Dropped())
	col, ok := desc.Column("name")
	require.True(t, ok)
	assert.Equal(t, "Country", col.Label)
}

func TestModel_ReadsOnlyResolvedKeys(t *testing.T) {
	src := ratesSource()
	m, err := gcharts.New(src).Values("rate", "nonexistent_field").Model(gcharts.Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, src.Reads)
	require.Len(t, m.Rows, 1)
	testutil.AssertExactKeys(t, m.Rows[0], []string{"rate"}, "row")
}

func TestValues_DoesNotModifyReceiver(t *testing.T) {
	qs := gcharts.New(ratesSource())
	_ = qs.Values("name")

	desc, err := qs.Description(gcharts.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "population", "rate"}, desc.Keys())
}

func TestList_Shapes(t *testing.T) {
	countries, _ := testutil.CreateCountriesTables()
	qs := gcharts.New(countries.Query().OrderBy("name").Limit(2))

	rows, err := qs.Values("name", "code").List()
	require.NoError(t, err)
	assert.Equal(t, []any{
		gcharts.Row{"name": "Atlantis", "code": "AT"},
		gcharts.Row{"name": "Kenya", "code": "KE"},
	}, rows)

	tuples, err := qs.ValuesList(false, "name", "code")
	require.NoError(t, err)
	list, err := tuples.List()
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"Atlantis", "AT"}, []any{"Kenya", "KE"}}, list)

	flat, err := qs.ValuesList(true, "code")
	require.NoError(t, err)
	values, err := flat.Flat()
	require.NoError(t, err)
	assert.Equal(t, []any{"AT", "KE"}, values)
}

func TestValuesList_FlatRequiresOneField(t *testing.T) {
	qs := gcharts.New(ratesSource())

	_, err := qs.ValuesList(true, "name", "rate")
	assert.ErrorIs(t, err, errors.ErrValuesList)

	_, err = qs.Values("name").Flat()
	assert.ErrorIs(t, err, errors.ErrValuesList)
}

func TestToJSONResponse(t *testing.T) {
	qs := gcharts.New(ratesSource())

	out, err := qs.ToJSONResponse(gcharts.Options{}, gcharts.ResponseOptions{ReqID: "3"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, gcharts.DefaultResponseHandler+"({"))
	require.True(t, strings.HasSuffix(out, ");"))
	inner := strings.TrimSuffix(strings.TrimPrefix(out, gcharts.DefaultResponseHandler+"("), ");")
	assert.Equal(t, "3", gjson.Get(inner, "reqId").String())
	assert.Equal(t, "0.6", gjson.Get(inner, "version").String())

	bare, err := qs.ToJSONResponse(gcharts.Options{}, gcharts.ResponseOptions{Bare: true, Handler: "ignored"})
	require.NoError(t, err)
	assert.True(t, gjson.Valid(bare))
	assert.Equal(t, "0", gjson.Get(bare, "reqId").String())
	assert.Equal(t, "ok", gjson.Get(bare, "status").String())

	custom, err := qs.ToJSONResponse(gcharts.Options{}, gcharts.ResponseOptions{Handler: "cb"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(custom, "cb({"))
}

func TestTextualFormats(t *testing.T) {
	src := &testutil.StubSource{
		LocalFields: []schema.Field{
			{Name: "name", Type: schema.FieldTypeChar},
			{Name: "baked", Type: schema.FieldTypeInt},
		},
		Data: []gcharts.Row{{"name": `Rat, "cakes"`, "baked": int64(1200)}},
	}
	qs := gcharts.New(src)
	opts := gcharts.Options{
		Labels: map[string]string{"name": "Name"},
		Masks:  map[string]string{"baked": "{v:,d} Kg"},
	}

	csv, err := qs.ToCSV(opts, 0)
	require.NoError(t, err)
	assert.Equal(t, "Name,baked\r\n\"Rat, \"\"cakes\"\"\",\"1,200 Kg\"\r\n", csv)

	semi, err := qs.ToCSV(opts, ';')
	require.NoError(t, err)
	assert.Equal(t, "Name;baked\r\n\"Rat, \"\"cakes\"\"\";1,200 Kg\r\n", semi)

	tsv, err := qs.ToTSVExcel(opts)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFE}, tsv[:2])

	html, err := qs.ToHTML(opts)
	require.NoError(t, err)
	assert.Contains(t, html, "<td>Rat, &#34;cakes&#34;</td><td>1,200 Kg</td>")

	js, err := qs.ToJavaScript("bakery", opts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(js, "var bakery = new google.visualization.DataTable();"))
	assert.Contains(t, js, `bakery.addColumn("number", "baked", "baked");`)
}

func TestQuerySet_RejectsMutations(t *testing.T) {
	countries, _ := testutil.CreateCountriesTables()
	stub := ratesSource()

	for _, qs := range []*gcharts.QuerySet{gcharts.New(countries.Query()), gcharts.New(stub)} {
		err := qs.Create(map[string]any{"name": "Lancre"})
		assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)
		err = qs.BulkCreate([]map[string]any{{"name": "Lancre"}})
		assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)
		_, _, err = qs.GetOrCreate(map[string]any{"name": "Lancre"})
		assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)
		_, err = qs.Update(map[string]any{"name": "Lancre"})
		assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)
		_, err = qs.Delete()
		assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)
	}

	assert.Equal(t, 4, countries.Len())
	assert.Zero(t, stub.Reads)
	assert.Len(t, stub.Data, 1)
}

func TestManager(t *testing.T) {
	countries, _ := testutil.CreateCountriesTables()
	m := gcharts.NewManager(countries.Query())

	all := m.All()
	require.NotNil(t, all)
	rows, err := all.Rows()
	require.NoError(t, err)
	testutil.AssertRowCount(t, len(rows), 4, "countries")
	testutil.AssertExactKeys(t, rows[0], []string{"id", "name", "code", "continent", "population", "independence"}, "row")

	out, err := m.Values("code").ToJSON(gcharts.Options{})
	require.NoError(t, err)
	assert.Equal(t, `["KE","NG","NO","AT"]`, gjson.Get(out, "rows.#.c.0.v").Raw)

	_, err = m.Delete()
	assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)
}

func TestToJSON_SQLSource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	model := sqlsource.NewModel("countries",
		schema.Field{Name: "id", Type: schema.FieldTypeAuto},
		schema.Field{Name: "name", Type: schema.FieldTypeChar},
		schema.Field{Name: "population", Type: schema.FieldTypeBigInt},
	)
	mock.ExpectQuery(`SELECT .+ FROM countries t0`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "population"}).
			AddRow("Kenya", int64(53000000)).
			AddRow("Atlantis", nil))

	out, err := gcharts.New(model.Query(db).Values("name", "population")).ToJSON(gcharts.Options{
		Labels: map[string]string{"population": "Population"},
	})
	require.NoError(t, err)

	assert.Equal(t, `["name","Population"]`, gjson.Get(out, "cols.#.label").Raw)
	assert.Equal(t, `[{"v":"Kenya"},{"v":53000000}]`, gjson.Get(out, "rows.0.c").Raw)
	assert.Equal(t, `[{"v":"Atlantis"},null]`, gjson.Get(out, "rows.1.c").Raw)
	assert.NoError(t, mock.ExpectationsWereMet())
}
