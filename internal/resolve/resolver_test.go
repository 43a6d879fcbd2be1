package resolve

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/leengari/gcharts/internal/domain/errors"
	"github.com/leengari/gcharts/internal/domain/schema"
	"github.com/leengari/gcharts/internal/table"
	"github.com/leengari/gcharts/internal/testutil"
)

func continents() *testutil.StubSource {
	return &testutil.StubSource{
		LocalFields: []schema.Field{
			{Name: "id", Type: schema.FieldTypeAuto},
			{Name: "name", Type: schema.FieldTypeChar},
			{Name: "planet", Attname: "planet_id", Type: schema.FieldTypeForeignKey},
		},
		Relations: map[string]*testutil.StubSource{
			"planet": {LocalFields: []schema.Field{
				{Name: "id", Type: schema.FieldTypeAuto},
				{Name: "mass", Type: schema.FieldTypeFloat},
			}},
		},
	}
}

func countries() *testutil.StubSource {
	return &testutil.StubSource{
		LocalFields: []schema.Field{
			{Name: "id", Type: schema.FieldTypeAuto},
			{Name: "name", Type: schema.FieldTypeChar},
			{Name: "continent", Attname: "continent_id", Type: schema.FieldTypeForeignKey},
			{Name: "independence", Type: schema.FieldTypeDate},
			{Name: "member", Type: schema.FieldTypeNullBool},
		},
		Relations: map[string]*testutil.StubSource{"continent": continents()},
	}
}

func resolveQuiet(t *testing.T, src schema.LocalSchema, requested []string, opts Options) (*table.Description, string) {
	t.Helper()
	logger, buf := testutil.CaptureLogger()
	opts.Logger = logger
	desc, err := Resolve(src, requested, opts)
	require.NoError(t, err)
	return desc, buf.String()
}

// TestResolve_AllLocalFields checks an empty request resolves every local
// field in declaration order
func TestResolve_AllLocalFields(t *testing.T) {
	desc, logs := resolveQuiet(t, countries(), nil, Options{})

	want := []table.Column{
		{Key: "id", Type: table.WireNumber, Label: "id"},
		{Key: "name", Type: table.WireString, Label: "name"},
		{Key: "continent", Type: table.WireNumber, Label: "continent"},
		{Key: "independence", Type: table.WireDate, Label: "independence"},
		{Key: "member", Type: table.WireBoolean, Label: "member"},
	}
	if diff := cmp.Diff(want, desc.Columns()); diff != "" {
		t.Errorf("description mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, desc.Dropped())
	assert.Empty(t, logs)
}

func TestResolve_LabelsAndRequestOrder(t *testing.T) {
	desc, _ := resolveQuiet(t, countries(), []string{"independence", "name"}, Options{
		Labels: map[string]string{"name": "Country", "unused": "x"},
	})

	assert.Equal(t, []string{"independence", "name"}, desc.Keys())
	col, ok := desc.Column("name")
	require.True(t, ok)
	assert.Equal(t, "Country", col.Label)
}

// TestResolve_StorageNameRekeyed checks a field requested and labelled by its
// storage attribute name comes out under the logical name
func TestResolve_StorageNameRekeyed(t *testing.T) {
	desc, _ := resolveQuiet(t, countries(), []string{"continent_id"}, Options{
		Labels: map[string]string{"continent_id": "Continent"},
	})

	want := []table.Column{{Key: "continent", Type: table.WireNumber, Label: "Continent"}}
	if diff := cmp.Diff(want, desc.Columns()); diff != "" {
		t.Errorf("description mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_LogicalLabelWinsOverStorageLabel(t *testing.T) {
	desc, _ := resolveQuiet(t, countries(), []string{"continent", "continent_id"}, Options{
		Labels: map[string]string{"continent_id": "By storage", "continent": "By name"},
	})

	assert.Equal(t, []string{"continent"}, desc.Keys())
	col, _ := desc.Column("continent")
	assert.Equal(t, "By name", col.Label)
}

func TestResolve_JoinedFields(t *testing.T) {
	desc, _ := resolveQuiet(t, countries(),
		[]string{"name", "continent__name", "continent__planet__mass"},
		Options{Labels: map[string]string{"continent__name": "Continent"}},
	)

	want := []table.Column{
		{Key: "name", Type: table.WireString, Label: "name"},
		{Key: "continent__name", Type: table.WireString, Label: "Continent"},
		{Key: "continent__planet__mass", Type: table.WireNumber, Label: "continent__planet__mass"},
	}
	if diff := cmp.Diff(want, desc.Columns()); diff != "" {
		t.Errorf("description mismatch (-want +got):\n%s", diff)
	}
}

// TestResolve_JoinedByStorageName checks a hop may name the foreign key by
// its storage attribute
func TestResolve_JoinedByStorageName(t *testing.T) {
	desc, _ := resolveQuiet(t, countries(), []string{"continent_id__name"}, Options{})
	assert.Equal(t, []string{"continent_id__name"}, desc.Keys())
}

// TestResolve_DropsUnresolvable checks unknown keys are dropped with a
// single warning and reported on the description
func TestResolve_DropsUnresolvable(t *testing.T) {
	desc, logs := resolveQuiet(t, countries(),
		[]string{"name", "bogus", "continent__nope", "name__name"},
		Options{},
	)

	assert.Equal(t, []string{"name"}, desc.Keys())
	assert.Equal(t, []string{"bogus", "continent__nope", "name__name"}, desc.Dropped())
	assert.Contains(t, logs, "dropping unresolvable columns")
	assert.Contains(t, logs, "count=3")
	assert.Contains(t, logs, "bogus")
}

func TestResolve_JoinWithoutCapability(t *testing.T) {
	src := testutil.LocalOnly{Src: countries()}
	desc, _ := resolveQuiet(t, src, []string{"name", "continent__name"}, Options{})

	assert.Equal(t, []string{"name"}, desc.Keys())
	assert.Equal(t, []string{"continent__name"}, desc.Dropped())
}

// TestResolve_Precedence checks aggregates beat extras and extras beat local
// fields of the same name
func TestResolve_Precedence(t *testing.T) {
	src := countries()
	src.Aggs = []schema.AggregateSpec{
		{Alias: "name", Type: schema.FieldTypeInt},
		{Alias: "total", Type: schema.FieldTypeBigInt},
	}
	src.Extras = []string{"name", "member", "ratio"}

	desc, _ := resolveQuiet(t, src, []string{"member", "name", "id"}, Options{
		Labels: map[string]string{"total": "Total"},
		ExtraFieldSpecs: map[string]ExtraFieldSpec{
			"member": {Type: table.WireString, Label: "Member?"},
			"ratio":  {Type: table.WireNumber},
		},
	})

	want := []table.Column{
		{Key: "name", Type: table.WireNumber, Label: "name"},
		{Key: "total", Type: table.WireNumber, Label: "Total"},
		{Key: "member", Type: table.WireString, Label: "Member?"},
		{Key: "ratio", Type: table.WireNumber, Label: "ratio"},
		{Key: "id", Type: table.WireNumber, Label: "id"},
	}
	if diff := cmp.Diff(want, desc.Columns()); diff != "" {
		t.Errorf("description mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_AggregatesAlwaysIncluded(t *testing.T) {
	src := countries()
	src.Aggs = []schema.AggregateSpec{{Alias: "name__count", Type: schema.FieldTypeInt}}

	desc, _ := resolveQuiet(t, src, []string{"name"}, Options{})
	assert.Equal(t, []string{"name__count", "name"}, desc.Keys())
}

func TestResolve_ExtraSpecErrorsCombined(t *testing.T) {
	src := countries()
	src.Extras = []string{"a", "b", "c"}

	_, err := Resolve(src, nil, Options{
		ExtraFieldSpecs: map[string]ExtraFieldSpec{
			"b": {Type: "money"},
			"c": {Type: table.WireBoolean},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingExtraFieldSpec)
	assert.ErrorIs(t, err, errors.ErrMalformedExtraFieldSpec)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), `"a"`)
	assert.Contains(t, errs[1].Error(), `"money"`)
}

func TestResolve_UnknownFieldType(t *testing.T) {
	src := &testutil.StubSource{LocalFields: []schema.Field{{Name: "shape", Type: "GEOMETRY"}}}

	_, err := Resolve(src, nil, Options{})
	require.Error(t, err)
	var typed *errors.UnknownFieldTypeError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "shape", typed.Field)
	assert.Equal(t, "GEOMETRY", typed.Type)
}

func TestWithField_FindsWrappedFieldTypeError(t *testing.T) {
	wrapped := fmt.Errorf("mapping column: %w", &errors.UnknownFieldTypeError{Type: "GEOMETRY"})

	err := withField(wrapped, "shape")
	var typed *errors.UnknownFieldTypeError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "shape", typed.Field)
	assert.Equal(t, "GEOMETRY", typed.Type)

	other := fmt.Errorf("boom")
	assert.Same(t, other, withField(other, "shape"))
}

func TestResolve_UnknownJoinedFieldType(t *testing.T) {
	src := countries()
	src.Relations["continent"].LocalFields = append(src.Relations["continent"].LocalFields,
		schema.Field{Name: "outline", Type: "POLYGON"})

	_, err := Resolve(src, []string{"continent__outline"}, Options{})
	var typed *errors.UnknownFieldTypeError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "continent__outline", typed.Field)
}

func TestResolve_ColumnProperties(t *testing.T) {
	desc, _ := resolveQuiet(t, countries(), []string{"name"}, Options{
		ColumnProperties: map[string]map[string]any{
			"name":  {"role": "domain"},
			"ghost": {"role": "ignored"},
		},
	})

	col, _ := desc.Column("name")
	assert.Equal(t, map[string]any{"role": "domain"}, col.Properties)
	assert.Equal(t, 1, desc.Len())
}

// TestResolve_Deterministic checks identical inputs yield identical output
func TestResolve_Deterministic(t *testing.T) {
	req := []string{"member", "continent__planet__mass", "bogus", "name"}
	a, _ := resolveQuiet(t, countries(), req, Options{})
	b, _ := resolveQuiet(t, countries(), req, Options{})
	assert.Equal(t, a.Columns(), b.Columns())
	assert.Equal(t, a.Dropped(), b.Dropped())
}
