// ABOUTME: Shared test fixtures for the persistence core
// ABOUTME: Provides an in-memory remote client with failure injection
package sheetdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// fakeRemote is an in-memory RemoteClient with failure injection.
type fakeRemote struct {
	mu       sync.Mutex
	tables   map[string][][]string
	failures map[string]*injected
	ops      []string
}

type injected struct {
	remaining int
	transient bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		tables:   make(map[string][][]string),
		failures: make(map[string]*injected),
	}
}

// failNext makes the next n calls of op ("READ", "APPEND", "UPDATE",
// "DELETE") against table fail, transiently or permanently.
func (f *fakeRemote) failNext(table, op string, n int, transient bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[table+"/"+op] = &injected{remaining: n, transient: transient}
}

func (f *fakeRemote) appliedOps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ops))
	copy(out, f.ops)
	return out
}

func (f *fakeRemote) rows(table string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.tables[table]))
	for i, r := range f.tables[table] {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (f *fakeRemote) maybeFail(table, op string) error {
	if fl := f.failures[table+"/"+op]; fl != nil && fl.remaining > 0 {
		fl.remaining--
		err := errors.New("injected failure")
		if fl.transient {
			return Transient(err)
		}
		return err
	}
	return nil
}

func (f *fakeRemote) ReadAll(ctx context.Context, table string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.maybeFail(table, "READ"); err != nil {
		return nil, err
	}
	rows, ok := f.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: no table %s", ErrSchema, table)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (f *fakeRemote) Append(ctx context.Context, table string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.maybeFail(table, "APPEND"); err != nil {
		return err
	}
	f.tables[table] = append(f.tables[table], append([]string(nil), row...))
	f.ops = append(f.ops, "APPEND "+table)
	return nil
}

func (f *fakeRemote) UpdateAt(ctx context.Context, table string, rowIndex int, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.maybeFail(table, "UPDATE"); err != nil {
		return err
	}
	rows := f.tables[table]
	if rowIndex < 1 || rowIndex > len(rows) {
		return fmt.Errorf("row %d out of range for %s", rowIndex, table)
	}
	rows[rowIndex-1] = append([]string(nil), row...)
	f.ops = append(f.ops, "UPDATE "+table)
	return nil
}

func (f *fakeRemote) DeleteAt(ctx context.Context, table string, rowIndex int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.maybeFail(table, "DELETE"); err != nil {
		return err
	}
	rows := f.tables[table]
	if rowIndex < 1 || rowIndex > len(rows) {
		return fmt.Errorf("row %d out of range for %s", rowIndex, table)
	}
	f.tables[table] = append(rows[:rowIndex-1], rows[rowIndex:]...)
	f.ops = append(f.ops, "DELETE "+table)
	return nil
}

func (f *fakeRemote) EnsureExists(ctx context.Context, table string, header []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[table]; !ok {
		f.tables[table] = [][]string{append([]string(nil), header...)}
	}
	return nil
}

// testTable wires a Table over a fresh fake remote with fast retries.
func testTable(t interface {
	Fatalf(format string, args ...any)
}, schema FieldSchema) (*Table, *fakeRemote, *SnapshotCache, *WriteQueue) {
	remote := newFakeRemote()
	cache := NewSnapshotCache(time.Minute)
	queue := NewWriteQueue(remote, cache, 3, time.Millisecond, zerolog.Nop())
	table := NewTable(schema, remote, cache, queue, zerolog.Nop())
	if err := table.EnsureExists(context.Background()); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	return table, remote, cache, queue
}
