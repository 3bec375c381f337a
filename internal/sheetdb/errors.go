// ABOUTME: Error kinds for the sheet-backed persistence layer
// ABOUTME: Callers match with errors.Is to tell recoverable failures from fatal ones
package sheetdb

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema indicates a worksheet is missing and could not be created.
	// Fatal at startup; nothing in the core recovers from it.
	ErrSchema = errors.New("worksheet schema error")

	// ErrRead indicates a transient I/O failure while reading a table.
	// Reads are not retried by the core; the caller may retry the whole command.
	ErrRead = errors.New("table read failed")

	// ErrWrite indicates a queued write exhausted its retries.
	// The cache for the affected table is left untouched; state is unknown.
	ErrWrite = errors.New("table write failed")

	// ErrRecordNotFound indicates a record id vanished between read and write,
	// or never existed.
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists indicates a caller-level uniqueness precondition failed.
	ErrRecordExists = errors.New("record already exists")

	// ErrUnknownField indicates a field name not present in the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrBadValue indicates a cell that cannot be coerced to the requested type.
	ErrBadValue = errors.New("invalid field value")
)

// transientError marks a remote client failure as retryable.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so that IsTransient reports true for it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is a retryable remote failure.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

func fieldErr(kind error, field string) error {
	return fmt.Errorf("%w: %q", kind, field)
}
