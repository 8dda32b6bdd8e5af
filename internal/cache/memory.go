package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory for the lifetime of the value.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	cfg := newStoreConfig(opts)
	return &MemoryStore{entries: make(map[string]Entry), now: cfg.now}
}

// Load is a no-op; the entries already live in memory.
func (s *MemoryStore) Load() error { return nil }

func (s *MemoryStore) Get(key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	return Entry{FetchedAt: e.FetchedAt, Value: cloneValue(e.Value)}, true, nil
}

func (s *MemoryStore) Put(key string, value json.RawMessage) error {
	v, err := compactValue(value)
	if err != nil {
		return &StoreError{Op: "put", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{FetchedAt: s.now(), Value: v}
	return nil
}
