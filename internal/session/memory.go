package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type entry struct {
	data     []byte
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory and forgets idle ones after ttl.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	m := &MemoryStore{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if ttl > 0 {
		go m.cleanup()
	}
	return m
}

func (m *MemoryStore) cleanup() {
	ticker := time.NewTicker(m.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.evict()
		}
	}
}

func (m *MemoryStore) evict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		if m.now().Sub(e.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

// Get returns a copy of the stored state; callers Save to publish changes.
func (m *MemoryStore) Get(_ context.Context, id string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok || (m.ttl > 0 && m.now().Sub(e.lastSeen) > m.ttl) {
		return nil, ErrNotFound
	}
	e.lastSeen = m.now()

	var s State
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[s.ID] = &entry{data: data, lastSeen: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}
