package testutil

import (
	"testing"

	"github.com/leengari/gcharts/internal/domain/data"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumnExists checks if a column exists in a row
func AssertColumnExists(t *testing.T, row data.Row, column, context string) {
	t.Helper()
	if _, exists := row[column]; !exists {
		t.Errorf("%s: expected column '%s' to exist", context, column)
	}
}

// AssertColumnNotExists checks if a column does not exist in a row
func AssertColumnNotExists(t *testing.T, row data.Row, column, context string) {
	t.Helper()
	if _, exists := row[column]; exists {
		t.Errorf("%s: did not expect column '%s' to exist", context, column)
	}
}

// AssertExactKeys checks that a row holds exactly the given keys
func AssertExactKeys(t *testing.T, row data.Row, keys []string, context string) {
	t.Helper()
	if len(row) != len(keys) {
		t.Errorf("%s: expected %d columns, got %d (%v)", context, len(keys), len(row), row)
	}
	for _, k := range keys {
		AssertColumnExists(t, row, k, context)
	}
}

// AssertNullValue checks if a value is nil
func AssertNullValue(t *testing.T, value any, context string) {
	t.Helper()
	if value != nil {
		t.Errorf("%s: expected NULL value, got: %v", context, value)
	}
}
