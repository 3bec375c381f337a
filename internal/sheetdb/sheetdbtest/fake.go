// ABOUTME: In-memory RemoteClient fake backing persistence tests
// ABOUTME: Supports failure injection to exercise retry and error paths
package sheetdbtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openleague/leaguekeeper/internal/sheetdb"
)

// FakeClient implements sheetdb.RemoteClient over in-memory grids.
// Safe for concurrent use.
type FakeClient struct {
	mu       sync.Mutex
	tables   map[string][][]string
	failures []*failure
	ops      []string
}

type failure struct {
	table     string
	op        string
	remaining int
	transient bool
}

// NewFakeClient returns an empty fake store.
func NewFakeClient() *FakeClient {
	return &FakeClient{tables: make(map[string][][]string)}
}

// FailNext makes the next n calls of op against table fail. A transient
// failure satisfies sheetdb.IsTransient; a permanent one does not.
// op is one of "READ", "APPEND", "UPDATE", "DELETE".
func (f *FakeClient) FailNext(table, op string, n int, transient bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, &failure{table: table, op: op, remaining: n, transient: transient})
}

// Ops returns the sequence of successfully applied mutations as
// "OP table" strings, in application order.
func (f *FakeClient) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ops))
	copy(out, f.ops)
	return out
}

// Rows returns a deep copy of the table's current grid.
func (f *FakeClient) Rows(table string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyGrid(f.tables[table])
}

// Seed replaces the table's grid outright.
func (f *FakeClient) Seed(table string, rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table] = copyGrid(rows)
}

func (f *FakeClient) ReadAll(ctx context.Context, table string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.maybeFail(table, "READ"); err != nil {
		return nil, err
	}
	rows, ok := f.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: no table %s", sheetdb.ErrSchema, table)
	}
	return copyGrid(rows), nil
}

func (f *FakeClient) Append(ctx context.Context, table string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.maybeFail(table, "APPEND"); err != nil {
		return err
	}
	if _, ok := f.tables[table]; !ok {
		return fmt.Errorf("%w: no table %s", sheetdb.ErrSchema, table)
	}
	f.tables[table] = append(f.tables[table], copyRow(row))
	f.ops = append(f.ops, "APPEND "+table)
	return nil
}

func (f *FakeClient) UpdateAt(ctx context.Context, table string, rowIndex int, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.maybeFail(table, "UPDATE"); err != nil {
		return err
	}
	rows, ok := f.tables[table]
	if !ok {
		return fmt.Errorf("%w: no table %s", sheetdb.ErrSchema, table)
	}
	if rowIndex < 1 || rowIndex > len(rows) {
		return fmt.Errorf("row %d out of range for %s", rowIndex, table)
	}
	rows[rowIndex-1] = copyRow(row)
	f.ops = append(f.ops, "UPDATE "+table)
	return nil
}

func (f *FakeClient) DeleteAt(ctx context.Context, table string, rowIndex int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.maybeFail(table, "DELETE"); err != nil {
		return err
	}
	rows, ok := f.tables[table]
	if !ok {
		return fmt.Errorf("%w: no table %s", sheetdb.ErrSchema, table)
	}
	if rowIndex < 1 || rowIndex > len(rows) {
		return fmt.Errorf("row %d out of range for %s", rowIndex, table)
	}
	f.tables[table] = append(rows[:rowIndex-1], rows[rowIndex:]...)
	f.ops = append(f.ops, "DELETE "+table)
	return nil
}

func (f *FakeClient) EnsureExists(ctx context.Context, table string, header []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.maybeFail(table, "ENSURE"); err != nil {
		return err
	}
	if _, ok := f.tables[table]; ok {
		return nil
	}
	f.tables[table] = [][]string{copyRow(header)}
	return nil
}

func (f *FakeClient) maybeFail(table, op string) error {
	for _, fl := range f.failures {
		if fl.table == table && fl.op == op && fl.remaining > 0 {
			fl.remaining--
			err := errors.New("injected failure")
			if fl.transient {
				return sheetdb.Transient(err)
			}
			return err
		}
	}
	return nil
}

func copyRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}

func copyGrid(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = copyRow(r)
	}
	return out
}
