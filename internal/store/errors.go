package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references an unknown id.
var ErrNotFound = errors.New("store: not found")

// ValidationError reports a write rejected before touching the
// database.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("store: invalid %s: %s", e.Field, e.Reason)
}
