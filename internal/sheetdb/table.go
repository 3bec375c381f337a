// ABOUTME: Table composes cache, write queue, history log and remote client into generic CRUD
// ABOUTME: Shared by every entity kind; expired rows are swept lazily on read
package sheetdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Table provides create/read/update/delete/query over records of one entity
// kind. All tables of a deployment share one SnapshotCache and one WriteQueue.
//
// The store has no transactions or row locks. Row positions are re-resolved
// from a fresh read on every update and delete, which narrows but does not
// close the window between locating a row and writing it; a concurrent
// deletion can still shift positions in between. Single-writer-process
// deployments keep that window harmless in practice.
type Table struct {
	schema  FieldSchema
	history FieldSchema
	client  RemoteClient
	cache   *SnapshotCache
	queue   *WriteQueue
	now     func() time.Time
	newID   func() string
	log     zerolog.Logger

	reaps sync.WaitGroup
}

// NewTable builds the CRUD surface for one entity schema.
func NewTable(schema FieldSchema, client RemoteClient, cache *SnapshotCache, queue *WriteQueue, log zerolog.Logger) *Table {
	return &Table{
		schema:  schema,
		history: schema.History(),
		client:  client,
		cache:   cache,
		queue:   queue,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		log:     log.With().Str("table", schema.Table()).Logger(),
	}
}

// Schema returns the entity schema.
func (t *Table) Schema() FieldSchema { return t.schema }

// EnsureExists creates the entity table and its history mirror with their
// header rows if they are absent. Fatal at startup when it fails.
func (t *Table) EnsureExists(ctx context.Context) error {
	if err := t.client.EnsureExists(ctx, t.schema.Table(), t.schema.Fields()); err != nil {
		return err
	}
	return t.client.EnsureExists(ctx, t.history.Table(), t.history.Fields())
}

// Create assigns a record id and timestamps and returns the record unsaved.
// created_at equals updated_at until the first Update.
func (t *Table) Create(fields map[string]string) (*Record, error) {
	rec := NewRecord(t.schema)
	for field, value := range fields {
		if err := rec.Set(field, value); err != nil {
			return nil, err
		}
	}
	now := t.now()
	if err := rec.Set(FieldRecordID, t.newID()); err != nil {
		return nil, err
	}
	if err := rec.SetTime(FieldCreatedAt, now); err != nil {
		return nil, err
	}
	if err := rec.SetTime(FieldUpdatedAt, now); err != nil {
		return nil, err
	}
	return rec, nil
}

// Insert appends the record to the backing table. The history CREATE row is
// durably written first, so a crash in between leaves an orphan audit entry,
// never an unaudited row.
func (t *Table) Insert(ctx context.Context, rec *Record) error {
	if err := t.writeHistory(HistoryCreate, rec); err != nil {
		return err
	}
	return <-t.queue.Submit(WriteTask{Table: t.schema.Table(), Op: OpAppend, Row: rec.Row()})
}

// Query returns the records matching pred in table order. A nil pred matches
// everything. Rows whose expiry field is in the past are excluded from the
// result and reaped in the background; the sweep never blocks the read.
func (t *Table) Query(ctx context.Context, pred func(*Record) bool) ([]*Record, error) {
	records, err := t.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := t.now()
	var matches []*Record
	var expired []string
	for _, rec := range records {
		if rec.Expired(now) {
			expired = append(expired, rec.ID())
			continue
		}
		if pred == nil || pred(rec) {
			matches = append(matches, rec)
		}
	}

	if len(expired) > 0 {
		t.reaps.Add(1)
		go func() {
			defer t.reaps.Done()
			t.Reap(context.Background(), expired)
		}()
	}
	return matches, nil
}

// Get returns the record with the given id from a fresh remote read, never
// the cache, including a record that has expired but is not yet reaped. The
// invite protocol re-fetches before committing an acceptance and must see
// the latest state, and must distinguish "expired" from "gone".
func (t *Table) Get(ctx context.Context, recordID string) (*Record, error) {
	_, rec, err := t.locate(ctx, recordID)
	return rec, err
}

// Update stamps updated_at, locates the record's current row by id in a
// fresh read, writes the history UPDATE row, then overwrites the row in
// place. Returns ErrRecordNotFound if the id vanished concurrently.
func (t *Table) Update(ctx context.Context, rec *Record) error {
	if err := rec.SetTime(FieldUpdatedAt, t.now()); err != nil {
		return err
	}
	rowIndex, _, err := t.locate(ctx, rec.ID())
	if err != nil {
		return err
	}
	if err := t.writeHistory(HistoryUpdate, rec); err != nil {
		return err
	}
	return <-t.queue.Submit(WriteTask{Table: t.schema.Table(), Op: OpUpdate, Row: rec.Row(), RowIndex: rowIndex})
}

// Delete locates the row by id in a fresh read, writes the history DELETE row
// with the pre-delete snapshot, then removes the row.
func (t *Table) Delete(ctx context.Context, recordID string) error {
	rowIndex, snapshot, err := t.locate(ctx, recordID)
	if err != nil {
		return err
	}
	if err := t.writeHistory(HistoryDelete, snapshot); err != nil {
		return err
	}
	return <-t.queue.Submit(WriteTask{Table: t.schema.Table(), Op: OpDelete, RowIndex: rowIndex})
}

// Reap deletes the given expired records. Invoked by Query in the background;
// callable directly for deterministic sweeps. A record already gone is fine.
func (t *Table) Reap(ctx context.Context, recordIDs []string) {
	for _, id := range recordIDs {
		err := t.Delete(ctx, id)
		if err == nil {
			t.log.Debug().Str("record_id", id).Msg("reaped expired record")
			continue
		}
		if errors.Is(err, ErrRecordNotFound) {
			continue
		}
		t.log.Warn().Str("record_id", id).Err(err).Msg("failed to reap expired record")
	}
}

// snapshot returns the table's records from cache, fetching and filling the
// cache on a miss. The header row is skipped; malformed rows are dropped with
// a warning rather than failing the whole read.
func (t *Table) snapshot(ctx context.Context) ([]*Record, error) {
	rows, ok := t.cache.Get(t.schema.Table())
	if !ok {
		var err error
		rows, err = t.client.ReadAll(ctx, t.schema.Table())
		if err != nil {
			if errors.Is(err, ErrSchema) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrRead, t.schema.Table(), err)
		}
		t.cache.Put(t.schema.Table(), rows)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	records := make([]*Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := RecordFromRow(t.schema, row)
		if err != nil {
			t.log.Warn().Int("row", i+2).Err(err).Msg("skipping malformed row")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// locate resolves the current 1-based row position of a record id from a
// fresh remote read, never from the cache. Positions shift after deletions,
// so a stale position must never be reused across calls.
func (t *Table) locate(ctx context.Context, recordID string) (int, *Record, error) {
	rows, err := t.client.ReadAll(ctx, t.schema.Table())
	if err != nil {
		if errors.Is(err, ErrSchema) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %s: %v", ErrRead, t.schema.Table(), err)
	}
	idCol, _ := t.schema.Index(FieldRecordID)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if idCol < len(row) && row[idCol] == recordID {
			rec, err := RecordFromRow(t.schema, row)
			if err != nil {
				return 0, nil, err
			}
			return i + 1, rec, nil
		}
	}
	return 0, nil, fmt.Errorf("%w: %s in %s", ErrRecordNotFound, recordID, t.schema.Table())
}

// writeHistory appends the audit row and waits for it to be durable before
// the caller submits the mutation it describes.
func (t *Table) writeHistory(op HistoryOp, subject *Record) error {
	row := historyRow(op, subject, t.newID(), t.now())
	return <-t.queue.Submit(WriteTask{Table: t.history.Table(), Op: OpAppend, Row: row})
}

// flushReaps waits for background sweeps. Tests use it for determinism.
func (t *Table) flushReaps() {
	t.reaps.Wait()
}
