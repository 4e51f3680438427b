package pending

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/craftledger/internal/observability"
)

type memoryEntry struct {
	sel       Selection
	expiresAt time.Time
}

// MemoryStore keeps selections in process. Gateway events arrive on separate goroutines, so access is locked.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore returns a store whose entries expire after ttl. ttl <= 0 disables expiry. Expired entries are
// swept on every Put, so abandoned selections do not accumulate.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Put(_ context.Context, s Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	m.entries[s.UserID] = m.entry(s, now)
	observability.Current().SetPendingHeld(len(m.entries))
	return nil
}

func (m *MemoryStore) Restore(_ context.Context, s Selection) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	if _, ok := m.entries[s.UserID]; ok {
		return false, nil
	}
	m.entries[s.UserID] = m.entry(s, now)
	observability.Current().SetPendingHeld(len(m.entries))
	return true, nil
}

func (m *MemoryStore) entry(s Selection, now time.Time) memoryEntry {
	e := memoryEntry{sel: s}
	if m.ttl > 0 {
		e.expiresAt = now.Add(m.ttl)
	}
	return e
}

// sweep drops expired entries. Callers hold mu.
func (m *MemoryStore) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
		}
	}
}

func (m *MemoryStore) Take(_ context.Context, userID string) (Selection, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID]
	if !ok {
		return Selection{}, false, nil
	}
	delete(m.entries, userID)
	observability.Current().SetPendingHeld(len(m.entries))
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		return Selection{}, false, nil
	}
	return e.sel, true, nil
}

// Len reports how many selections are held. Entries that expired since the last Put are still counted.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
