package store

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by every operation issued before Hydrate completes.
var ErrNotReady = errors.New("store not ready: Hydrate has not completed")

// NotFoundError is returned by Edit and Get for an unknown id.
// Delete of an unknown id is not an error.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %q not found", e.ID)
}

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsNotReady returns true if err is or wraps ErrNotReady.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}
