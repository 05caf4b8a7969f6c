// Package leaders caches the most recent leaderboard snapshot and keeps it
// fresh from the upstream gateway.
package leaders

import (
	"sync"

	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
)

// Cache holds the latest leaderboard snapshot. Snapshots are replaced
// wholesale and never mutated in place, so readers always see a fully-formed
// snapshot.
type Cache struct {
	mu   sync.RWMutex
	snap model.LeaderboardSnapshot
}

// NewCache creates a cache primed with an empty snapshot, so Get is
// well-defined before the first refresh.
func NewCache() *Cache {
	return &Cache{snap: model.EmptySnapshot()}
}

// Update replaces the stored snapshot.
func (c *Cache) Update(snap model.LeaderboardSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
}

// Get returns the last stored snapshot.
func (c *Cache) Get() model.LeaderboardSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}
