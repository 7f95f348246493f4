package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryStore is the single-process store used when no Redis is configured.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memEntry
}

type memEntry struct {
	payload   *Payload
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]memEntry),
	}
}

func (m *MemoryStore) expired(e memEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

func (m *MemoryStore) put(p *Payload) {
	e := memEntry{payload: p.Clone()}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.items[p.ID] = e
}

// sweep drops every expired entry. Callers hold the write lock.
func (m *MemoryStore) sweep() {
	for id, e := range m.items {
		if m.expired(e) {
			delete(m.items, id)
		}
	}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Payload, error) {
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok || m.expired(e) {
		delete(m.items, id)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.payload.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, p *Payload) error {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("save session: empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.put(p)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*Payload) error) (*Payload, error) {
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok || m.expired(e) {
		delete(m.items, id)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cur := e.payload.Clone()
	if err := fn(cur); err != nil {
		return nil, err
	}
	cur.ID = id
	m.put(cur)
	return cur.Clone(), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, strings.TrimSpace(id))
	return nil
}

func (m *MemoryStore) Close() error { return nil }
