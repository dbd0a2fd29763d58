package store

import (
	"sync"
	"time"

	"github.com/dripguard/dripguard/server/internal/model"
)

// LatestEntry is a dashboard update together with the time it was produced.
type LatestEntry struct {
	Update    model.DashboardUpdate
	UpdatedAt time.Time
}

// Latest is a thread-safe cell holding the most recent dashboard update.
// An entry older than the TTL is treated as absent: a device that stopped
// reporting should make the dashboard show "no data", not a frozen reading.
type Latest struct {
	mu    sync.RWMutex
	entry *LatestEntry
	ttl   time.Duration
	now   func() time.Time // injectable for deterministic tests
}

// NewLatest creates a Latest cell with the given staleness TTL.
// A TTL of zero or less disables staleness: entries never expire.
func NewLatest(ttl time.Duration) *Latest {
	return &Latest{
		ttl: ttl,
		now: time.Now,
	}
}

// Put replaces the held update.
func (l *Latest) Put(u model.DashboardUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entry = &LatestEntry{Update: u, UpdatedAt: l.now()}
}

// Get returns the held entry and whether a live (non-stale) entry exists.
func (l *Latest) Get() (LatestEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.entry == nil {
		return LatestEntry{}, false
	}
	if l.ttl > 0 && l.now().Sub(l.entry.UpdatedAt) > l.ttl {
		return LatestEntry{}, false
	}
	return *l.entry, true
}
