package cache

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/bassista/go_jsonupdate/internal/jsonfile"
	"github.com/bassista/go_jsonupdate/internal/logger"
)

// Store keeps parsed documents in memory, keyed by cleaned file path.
// Values are deep-copied on the way in and out so callers can mutate them freely.
//
// Every invalidation bumps a version counter. A read-through Load only caches
// its result when no invalidation of the path happened while it was reading.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]any
	versions map[string]uint64
	epoch    uint64
	counter  uint64
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{
		entries:  make(map[string]any),
		versions: make(map[string]uint64),
	}
}

// Get returns a copy of the cached document for path.
func (s *Store) Get(path string) (any, bool) {
	s.mu.RLock()
	doc, ok := s.entries[key(path)]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	cloned, err := cloneDocument(doc)
	if err != nil {
		return nil, false
	}
	return cloned, true
}

// Put stores a copy of doc for path.
func (s *Store) Put(path string, doc any) error {
	cloned, err := cloneDocument(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key(path)] = cloned
	return nil
}

// Load returns the cached document or reads it through reader and caches it.
// Read errors are returned as is and nothing is cached.
func (s *Store) Load(ctx context.Context, path string, reader Reader) (any, error) {
	if doc, ok := s.Get(path); ok {
		logger.WithComponent("cache").Tracef("cache hit for %s", path)
		return doc, nil
	}

	k := key(path)
	s.mu.RLock()
	before := s.version(k)
	s.mu.RUnlock()

	doc, err := reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	cloned, err := cloneDocument(doc)
	if err != nil {
		logger.WithComponent("cache").Warnf("cannot cache %s: %v", path, err)
		return doc, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version(k) != before {
		logger.WithComponent("cache").Tracef("%s changed while reading, not caching", path)
		return doc, nil
	}
	s.entries[k] = cloned
	return doc, nil
}

// Invalidate drops the entry for path.
func (s *Store) Invalidate(path string) {
	k := key(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, k)
	s.counter++
	s.versions[k] = s.counter
}

// InvalidateAll empties the cache.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]any)
	s.counter++
	s.epoch = s.counter
	s.versions = make(map[string]uint64)
}

// version must be called with mu held.
func (s *Store) version(k string) uint64 {
	return max(s.epoch, s.versions[k])
}

// Len returns the number of cached documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func key(path string) string {
	return filepath.Clean(path)
}

// cloneDocument deep-copies a dynamic document through its JSON form.
func cloneDocument(doc any) (any, error) {
	data, err := jsonfile.Marshal(doc, jsonfile.WriteOptions{Compact: true})
	if err != nil {
		return nil, err
	}
	var cloned any
	if err := jsonfile.Decode(data, &cloned); err != nil {
		return nil, err
	}
	return cloned, nil
}
