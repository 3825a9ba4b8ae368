package session

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is how often a MemoryStore drops expired sessions.
const sweepInterval = time.Minute

// MemoryStore keeps sessions in process memory. Suitable for a single
// instance or development; sessions are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	identity  Identity
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore. Expired sessions are swept
// in the background every minute; call Stop to end the sweep.
func NewMemoryStore() *MemoryStore {
	return newMemoryStore(sweepInterval, time.Now)
}

func newMemoryStore(interval time.Duration, now func() time.Time) *MemoryStore {
	m := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     now,
		stop:    make(chan struct{}),
	}
	go m.cleanup(interval)
	return m
}

// Get returns the identity for token, or ErrNotFound when absent or expired.
func (m *MemoryStore) Get(_ context.Context, token string) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[token]
	if !ok {
		return Identity{}, ErrNotFound
	}
	if !e.expiresAt.After(m.now()) {
		delete(m.entries, token)
		return Identity{}, ErrNotFound
	}
	return e.identity, nil
}

// Save stores id under token for ttl.
func (m *MemoryStore) Save(_ context.Context, token string, id Identity, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[token] = memoryEntry{identity: id, expiresAt: m.now().Add(ttl)}
	return nil
}

// Delete removes token. Deleting an unknown token is not an error.
func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, token)
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored sessions, expired but not yet swept
// ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stop ends the background sweep. It is safe to call more than once.
func (m *MemoryStore) Stop() {
	m.once.Do(func() { close(m.stop) })
}

func (m *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep drops every expired session.
func (m *MemoryStore) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for token, e := range m.entries {
		if !e.expiresAt.After(now) {
			delete(m.entries, token)
		}
	}
}
