package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/gcharts/internal/domain/data"
	"github.com/leengari/gcharts/internal/domain/schema"
)

func newPeopleTable() *Table {
	return NewTable("people",
		schema.Field{Name: "name", Type: schema.FieldTypeChar},
		schema.Field{Name: "age", Type: schema.FieldTypeInt},
		schema.Field{Name: "born", Type: schema.FieldTypeDate},
	)
}

func TestNewTable_PrependsPrimaryKey(t *testing.T) {
	tbl := newPeopleTable()
	assert.Equal(t, "id", tbl.PrimaryKey())
	assert.Equal(t, []string{"id", "name", "age", "born"}, schema.FieldNames(tbl))

	withPK := NewTable("x", schema.Field{Name: "code", Type: schema.FieldTypeAuto})
	assert.Equal(t, "code", withPK.PrimaryKey())
	assert.Len(t, withPK.Fields(), 1)
}

func TestInsert_AutoIncrement(t *testing.T) {
	tbl := newPeopleTable()
	require.NoError(t, tbl.Insert(data.Row{"name": "Alice"}))
	require.NoError(t, tbl.Insert(data.Row{"id": int64(10), "name": "Bob"}))
	require.NoError(t, tbl.Insert(data.Row{"name": "Carol"}))

	rows := tbl.SelectAll()
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, int64(10), rows[1]["id"])
	assert.Equal(t, int64(11), rows[2]["id"])
}

func TestInsert_DoesNotKeepCallerRow(t *testing.T) {
	tbl := newPeopleTable()
	row := data.Row{"name": "Alice"}
	require.NoError(t, tbl.Insert(row))

	row["name"] = "Mallory"
	got, ok := tbl.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Alice", got["name"])
	assert.NotContains(t, row, "id")
}

func TestInsert_Violations(t *testing.T) {
	tbl := newPeopleTable()
	require.NoError(t, tbl.Insert(data.Row{"id": int64(1), "name": "Alice"}))

	var ce *ConstraintError
	err := tbl.Insert(data.Row{"id": int64(1), "name": "Again"})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "primary_key", ce.Constraint)

	err = tbl.Insert(data.Row{"name": 42})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "type_mismatch", ce.Constraint)

	err = tbl.Insert(data.Row{"born": "yesterday"})
	require.ErrorAs(t, err, &ce)

	var nf *ColumnNotFoundError
	err = tbl.Insert(data.Row{"nickname": "Al"})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nickname", nf.ColumnName)

	assert.Equal(t, 1, tbl.Len())
}

func TestUpdateDelete(t *testing.T) {
	tbl := newPeopleTable()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, tbl.Insert(data.Row{"name": n, "age": int64(1)}))
	}

	n, err := tbl.Update(func(r data.Row) bool { return r["name"] != "b" }, data.Row{"age": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = tbl.Update(func(data.Row) bool { return true }, data.Row{"id": int64(9)})
	assert.Error(t, err)

	n, err = tbl.Delete(func(r data.Row) bool { return r["name"] == "a" })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok := tbl.Get(int64(1))
	assert.False(t, ok)
	got, ok := tbl.Get(3)
	require.True(t, ok)
	assert.Equal(t, int64(2), got["age"])
}

func TestRelate(t *testing.T) {
	cities := NewTable("cities", schema.Field{Name: "name", Type: schema.FieldTypeChar})
	people := NewTable("people",
		schema.Field{Name: "name", Type: schema.FieldTypeChar},
		schema.Field{Name: "city", Attname: "city_id", Type: schema.FieldTypeForeignKey},
	)

	assert.Error(t, people.Relate("name", cities))
	assert.Error(t, people.Relate("ghost", cities))
	require.NoError(t, people.Relate("city_id", cities))

	target, ok := people.Related("city")
	require.True(t, ok)
	assert.Same(t, cities, target)

	_, ok = people.Related("name")
	assert.False(t, ok)
}

func TestInsert_TimeValues(t *testing.T) {
	tbl := NewTable("events",
		schema.Field{Name: "at", Type: schema.FieldTypeDateTime},
		schema.Field{Name: "clock", Type: schema.FieldTypeTime},
	)
	require.NoError(t, tbl.Insert(data.Row{"at": time.Now(), "clock": time.Now()}))
	assert.Error(t, tbl.Insert(data.Row{"clock": "12:00"}))
}
