package session

import (
	"context"
	"sync"

	"court-compare/core/reconcile"
)

// MemoryStore keeps results in a map guarded by a read-write mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]*reconcile.Result
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]*reconcile.Result)}
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, result *reconcile.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[sessionID] = result
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*reconcile.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return result, nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, sessionID)
	return nil
}

func (s *MemoryStore) Purge(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.results)
	s.results = make(map[string]*reconcile.Result)
	return n, nil
}
