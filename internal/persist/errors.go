package persist

import (
	"errors"
	"fmt"
)

// ErrNotFound means the slot has never been written.
var ErrNotFound = errors.New("no saved accounts")

// StorageError is an I/O failure reading or writing the slot.
type StorageError struct {
	// Op is the failed operation: "load", "save" or "encode".
	Op string

	// Key identifies the slot (a key or a file path).
	Key string

	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SchemaError means a payload could be read but not understood.
type SchemaError struct {
	// Version is the payload version, when it could be determined.
	Version int

	// Index is the offending record, or -1 for payload-level problems.
	Index int

	Message string
	Err     error
}

func (e *SchemaError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("schema v%d: record %d: %s", e.Version, e.Index, e.Message)
	}
	return fmt.Sprintf("schema v%d: %s", e.Version, e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsStorageError returns true if err is or wraps a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsSchemaError returns true if err is or wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
