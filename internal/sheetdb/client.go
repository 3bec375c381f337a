// ABOUTME: RemoteClient is the only surface allowed to talk to the remote store
// ABOUTME: A table is a 2-D grid of string cells with the header in row 1
package sheetdb

import "context"

// RemoteClient abstracts the remote tabular store. Row addressing on UpdateAt
// and DeleteAt is 1-based and positional; positions shift after any deletion,
// so callers must re-resolve them per call, never cache them.
//
// Any call may fail transiently (rate limit, I/O, timeout); such errors
// satisfy IsTransient. A missing-and-uncreatable table is a schema error.
type RemoteClient interface {
	// ReadAll returns the full grid including the header row.
	ReadAll(ctx context.Context, table string) ([][]string, error)

	// Append adds one row at the end of the table.
	Append(ctx context.Context, table string, row []string) error

	// UpdateAt overwrites the row at the 1-based position.
	UpdateAt(ctx context.Context, table string, rowIndex int, row []string) error

	// DeleteAt removes the row at the 1-based position. Rows below shift up.
	DeleteAt(ctx context.Context, table string, rowIndex int) error

	// EnsureExists creates the table with the header row if it is absent.
	EnsureExists(ctx context.Context, table string, header []string) error
}
