// ABOUTME: Serialized write queue with per-table FIFO lanes
// ABOUTME: Retries transient failures with backoff, invalidates the cache before resolving
package sheetdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/openleague/leaguekeeper/internal/util"
)

// WriteOp is the kind of a queued mutation.
type WriteOp string

const (
	OpAppend WriteOp = "APPEND"
	OpUpdate WriteOp = "UPDATE"
	OpDelete WriteOp = "DELETE"
)

// WriteTask is one queued mutation against a backing table. RowIndex is the
// 1-based position for UPDATE and DELETE; it is ignored for APPEND.
type WriteTask struct {
	Table    string
	Op       WriteOp
	Row      []string
	RowIndex int
}

type queuedTask struct {
	task WriteTask
	done chan error
}

const laneBuffer = 128

// maxBackoff bounds the sleep between retry attempts.
const maxBackoff = 30 * time.Second

// WriteQueue serializes mutations so that at most one remote call per table is
// in flight at a time and tasks against the same table apply in submission
// order. Lanes for different tables are independent. Process-wide: one
// instance per backing store, shared by all tables.
type WriteQueue struct {
	client     RemoteClient
	cache      *SnapshotCache
	maxRetries int
	baseDelay  time.Duration
	log        zerolog.Logger

	mu     sync.Mutex
	lanes  map[string]chan queuedTask
	closed bool
	wg     sync.WaitGroup
}

// NewWriteQueue creates a queue writing through client. On success the queue
// invalidates cache for the task's table before resolving the handle.
func NewWriteQueue(client RemoteClient, cache *SnapshotCache, maxRetries int, baseDelay time.Duration, log zerolog.Logger) *WriteQueue {
	return &WriteQueue{
		client:     client,
		cache:      cache,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		log:        log,
		lanes:      make(map[string]chan queuedTask),
	}
}

// Submit enqueues a task and returns its completion handle. The handle
// receives exactly one value: nil on success or an error wrapping ErrWrite
// once retries are exhausted. Tasks are never silently dropped. Receiving
// from the handle blocks only the caller, not other lanes.
func (q *WriteQueue) Submit(task WriteTask) <-chan error {
	done := make(chan error, 1)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		done <- fmt.Errorf("%w: queue closed", ErrWrite)
		return done
	}
	lane, ok := q.lanes[task.Table]
	if !ok {
		lane = make(chan queuedTask, laneBuffer)
		q.lanes[task.Table] = lane
		q.wg.Add(1)
		go q.run(task.Table, lane)
	}
	q.mu.Unlock()

	lane <- queuedTask{task: task, done: done}
	return done
}

// Close stops accepting tasks and waits for every lane to drain.
func (q *WriteQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, lane := range q.lanes {
		close(lane)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

// run is the worker for one table lane.
func (q *WriteQueue) run(table string, lane chan queuedTask) {
	defer q.wg.Done()
	for qt := range lane {
		err := q.apply(qt.task)
		if err == nil {
			// Invalidate before resolving the handle so a read issued
			// right after the write never sees the stale snapshot.
			q.cache.Invalidate(table)
		}
		qt.done <- err
	}
}

// apply performs one task against the remote store, retrying transient
// failures up to the bounded attempt count.
func (q *WriteQueue) apply(task WriteTask) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = q.call(task)
		if err == nil {
			return nil
		}
		if !IsTransient(err) || attempt >= q.maxRetries {
			break
		}
		delay := util.Backoff(q.baseDelay, attempt+1, maxBackoff)
		q.log.Warn().
			Str("table", task.Table).
			Str("op", string(task.Op)).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Err(err).
			Msg("write failed, retrying")
		time.Sleep(delay)
	}
	q.log.Error().
		Str("table", task.Table).
		Str("op", string(task.Op)).
		Err(err).
		Msg("write failed permanently")
	return fmt.Errorf("%w: %s on %s: %v", ErrWrite, task.Op, task.Table, err)
}

func (q *WriteQueue) call(task WriteTask) error {
	ctx := context.Background()
	switch task.Op {
	case OpAppend:
		return q.client.Append(ctx, task.Table, task.Row)
	case OpUpdate:
		return q.client.UpdateAt(ctx, task.Table, task.RowIndex, task.Row)
	case OpDelete:
		return q.client.DeleteAt(ctx, task.Table, task.RowIndex)
	default:
		return fmt.Errorf("unknown write op %q", task.Op)
	}
}
