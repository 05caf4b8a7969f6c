// Package tally keeps the process-wide running totals.
package tally

import (
	"sync"
)

// Totals accumulates points and picture counts across the process lifetime.
// Both counters are monotonically non-decreasing and incremented exactly
// once per accepted event, in acceptance order.
type Totals struct {
	mu       sync.Mutex
	points   float64
	pictures int64
}

// New creates zeroed totals.
func New() *Totals {
	return &Totals{}
}

// Add records one accepted event worth score points and returns the totals
// as of this event, for stamping onto the event itself.
func (t *Totals) Add(score float64) (points float64, pictures int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.points += score
	t.pictures++
	return t.points, t.pictures
}

// Snapshot returns the current totals.
func (t *Totals) Snapshot() (points float64, pictures int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.points, t.pictures
}
