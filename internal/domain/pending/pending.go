// Package pending holds scored images awaiting a moderation decision.
package pending

import (
	"context"
	"sync"

	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
)

// Record wraps one scored image queued for review.
type Record struct {
	Event model.ScoredImage

	// AssignedTo is the registry identity of the moderator the record was
	// dispatched to. Empty while the record is held (no moderator was
	// connected) or after a fallback broadcast.
	AssignedTo string
}

// Queue is the pending-approval store. At most one record exists per event
// id; pushing a colliding id replaces the stored record.
type Queue interface {
	// Push inserts or replaces the record for ev.ID.
	Push(ctx context.Context, ev model.ScoredImage)

	// Approve removes and returns the record for id.
	// Returns ErrNotFound if id is not currently pending.
	Approve(ctx context.Context, id string) (Record, error)

	// Reject removes and returns the record for id.
	// Returns ErrNotFound if id is not currently pending.
	Reject(ctx context.Context, id string) (Record, error)

	// Assign marks the record as dispatched to a moderator identity.
	// A missing id is ignored; the record may have been resolved already.
	Assign(ctx context.Context, id, moderatorID string)

	// ByAssignee returns the records currently assigned to moderatorID.
	ByAssignee(ctx context.Context, moderatorID string) []Record

	// Unassigned returns the records not yet dispatched to any moderator.
	Unassigned(ctx context.Context) []Record

	// Size returns the number of pending records.
	Size() int
}

// inMemoryQueue implements Queue with a map guarded by a mutex. Records
// persist until explicitly resolved; there is no expiry.
type inMemoryQueue struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewInMemoryQueue creates an empty pending queue.
func NewInMemoryQueue() Queue {
	return &inMemoryQueue{
		records: make(map[string]Record),
	}
}

func (q *inMemoryQueue) Push(ctx context.Context, ev model.ScoredImage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	// Replace-in-place on id collision: ids are unique per capture, so a
	// collision means a retransmit of the same event.
	q.records[ev.ID] = Record{Event: ev}
}

func (q *inMemoryQueue) Approve(ctx context.Context, id string) (Record, error) {
	return q.take(id)
}

func (q *inMemoryQueue) Reject(ctx context.Context, id string) (Record, error) {
	return q.take(id)
}

func (q *inMemoryQueue) take(id string) (Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	rec, ok := q.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	delete(q.records, id)
	return rec, nil
}

func (q *inMemoryQueue) Assign(ctx context.Context, id, moderatorID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	rec, ok := q.records[id]
	if !ok {
		return
	}
	rec.AssignedTo = moderatorID
	q.records[id] = rec
}

func (q *inMemoryQueue) ByAssignee(ctx context.Context, moderatorID string) []Record {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var out []Record
	for _, rec := range q.records {
		if rec.AssignedTo == moderatorID {
			out = append(out, rec)
		}
	}
	return out
}

func (q *inMemoryQueue) Unassigned(ctx context.Context) []Record {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var out []Record
	for _, rec := range q.records {
		if rec.AssignedTo == "" {
			out = append(out, rec)
		}
	}
	return out
}

func (q *inMemoryQueue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.records)
}
