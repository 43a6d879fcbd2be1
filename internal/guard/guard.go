// Package guard rejects writes attempted through the read-only chart adapter.
// Writes must go through the row source's own write path and validation.
package guard

import "github.com/leengari/gcharts/internal/domain/errors"

// Operation names reported in UnsupportedOperationError
const (
	OpCreate      = "create"
	OpBulkCreate  = "bulk_create"
	OpGetOrCreate = "get_or_create"
	OpUpdate      = "update"
	OpDelete      = "delete"
)

// ReadOnly implements every write entry point by failing immediately.
// Embed it in adapters that must never modify their source.
type ReadOnly struct{}

// Create always fails
func (ReadOnly) Create(map[string]any) error {
	return Reject(OpCreate)
}

// BulkCreate always fails
func (ReadOnly) BulkCreate([]map[string]any) error {
	return Reject(OpBulkCreate)
}

// GetOrCreate always fails
func (ReadOnly) GetOrCreate(map[string]any) (map[string]any, bool, error) {
	return nil, false, Reject(OpGetOrCreate)
}

// Update always fails
func (ReadOnly) Update(map[string]any) (int, error) {
	return 0, Reject(OpUpdate)
}

// Delete always fails
func (ReadOnly) Delete() (int, error) {
	return 0, Reject(OpDelete)
}

// Reject builds the error returned for a write operation
func Reject(op string) error {
	return &errors.UnsupportedOperationError{Op: op}
}
