package repository

import (
	"context"
	"sync"
	"time"
)

// Memory tracks featured promotions in process. Expiry is lazy: reads compare
// against the clock, and PurgeExpiredBefore exists for the janitor to reclaim
// entries eagerly.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]time.Time

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// SetFeatured records or extends a promotion. An existing entry is simply
// overwritten; promotions do not stack.
func (m *Memory) SetFeatured(ctx context.Context, userID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[userID] = until
	return nil
}

// ActiveUntil reports the promotion expiry for a user, if one is still live.
func (m *Memory) ActiveUntil(ctx context.Context, userID string) (time.Time, bool, error) {
	m.mu.RLock()
	until, ok := m.entries[userID]
	m.mu.RUnlock()

	if !ok || !until.After(m.now()) {
		return time.Time{}, false, nil
	}
	return until, true, nil
}

func (m *Memory) Remove(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, userID)
	return nil
}

// PurgeExpiredBefore drops entries whose expiry is at or before cutoff and
// returns how many were removed.
func (m *Memory) PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for userID, until := range m.entries {
		if !until.After(cutoff) {
			delete(m.entries, userID)
			purged++
		}
	}
	return purged, nil
}
