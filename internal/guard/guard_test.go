package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/gcharts/internal/domain/errors"
)

func TestReadOnly_RejectsEveryWrite(t *testing.T) {
	var g ReadOnly

	_, _, getErr := g.GetOrCreate(map[string]any{"name": "x"})
	_, updErr := g.Update(map[string]any{"name": "y"})
	_, delErr := g.Delete()

	cases := map[string]error{
		OpCreate:      g.Create(map[string]any{"name": "x"}),
		OpBulkCreate:  g.BulkCreate([]map[string]any{{"name": "x"}}),
		OpGetOrCreate: getErr,
		OpUpdate:      updErr,
		OpDelete:      delErr,
	}
	for op, err := range cases {
		require.Error(t, err, op)
		assert.ErrorIs(t, err, errors.ErrUnsupportedOperation, op)

		var typed *errors.UnsupportedOperationError
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, op, typed.Op)
	}
}

func TestReject(t *testing.T) {
	err := Reject("truncate")
	assert.EqualError(t, err, "truncate: chart query sets are not able to modify the row source")
}
