package session

import (
	"context"
	"sync"
	"time"
)

// MemoryConfig configures the in-memory store.
type MemoryConfig struct {
	// TTL is the sliding session lifetime. Zero means DefaultTTL.
	TTL time.Duration

	// Capacity is the maximum number of live sessions. When the store is
	// full, storing a new session evicts the least recently updated one.
	// Zero means DefaultCapacity; negative means unbounded.
	Capacity int
}

// MemoryStore keeps sessions in a mutex-guarded map. It is safe for
// concurrent use and is the default backend for the HTTP server.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	capacity int

	// now is replaceable in tests.
	now func() time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get implements [Store].
func (st *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, nil
	}
	now := st.now()
	if s.Expired(now) {
		delete(st.sessions, id)
		return nil, ErrExpired
	}
	s.Touch(now, st.ttl)
	dup := *s
	return &dup, nil
}

// Set implements [Store]. Storing a new session first drops expired
// entries, then evicts the least recently updated session if the store is
// still at capacity.
func (st *MemoryStore) Set(_ context.Context, s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.dropExpired(now)

	if _, exists := st.sessions[s.ID]; !exists && st.capacity > 0 {
		for len(st.sessions) >= st.capacity {
			st.evictOldest()
		}
	}

	dup := *s
	st.sessions[s.ID] = &dup
	return nil
}

// Delete implements [Store].
func (st *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok, nil
}

// Cleanup implements [Store].
func (st *MemoryStore) Cleanup(_ context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.dropExpired(st.now())
	return nil
}

// Close implements [Store].
func (st *MemoryStore) Close() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions = make(map[string]*Session)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (st *MemoryStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *MemoryStore) dropExpired(now time.Time) {
	for id, s := range st.sessions {
		if s.Expired(now) {
			delete(st.sessions, id)
		}
	}
}

func (st *MemoryStore) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, s := range st.sessions {
		if oldestID == "" || s.UpdatedAt.Before(oldest) ||
			(s.UpdatedAt.Equal(oldest) && id < oldestID) {
			oldestID = id
			oldest = s.UpdatedAt
		}
	}
	if oldestID != "" {
		delete(st.sessions, oldestID)
	}
}
