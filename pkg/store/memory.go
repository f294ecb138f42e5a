package store

import (
	"sort"
	"sync"
)

// InMemoryStore is a thread-safe map-backed Store.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[string]any
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{items: make(map[string]any)}
}

// TypeDescription identifies the backing implementation.
func (s *InMemoryStore) TypeDescription() string { return "memory" }

// Save stores or replaces the value under key.
func (s *InMemoryStore) Save(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Load retrieves the value under key.
func (s *InMemoryStore) Load(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Delete removes the value under key, if present.
func (s *InMemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// LoadAll returns a snapshot copy of the store's contents.
func (s *InMemoryStore) LoadAll() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

// HasItemWithKey reports whether key is present.
func (s *InMemoryStore) HasItemWithKey(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[key]
	return ok
}

// Count returns the number of items in the store.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// InMemoryFactory opens in-memory stores by name.
type InMemoryFactory struct {
	mu     sync.Mutex
	stores map[string]*InMemoryStore
}

// NewInMemoryFactory creates an empty factory.
func NewInMemoryFactory() *InMemoryFactory {
	return &InMemoryFactory{stores: make(map[string]*InMemoryStore)}
}

// Open returns the named store, creating it on first use.
func (f *InMemoryFactory) Open(name string) Store {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.stores[name]
	if !ok {
		st = NewInMemoryStore()
		f.stores[name] = st
	}
	return st
}

// Names lists the stores created so far, sorted for stable output.
func (f *InMemoryFactory) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.stores))
	for name := range f.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
