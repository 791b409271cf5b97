package preferences

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in process. Tests and redis-less local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Preferences
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Preferences)}
}

func (s *MemoryStore) Load(_ context.Context, subjectID string) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.items[subjectID]
	if !ok {
		return Defaults(), nil
	}
	return prefs.Normalize(), nil
}

func (s *MemoryStore) Save(_ context.Context, subjectID string, prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[subjectID] = prefs.Normalize()
	return nil
}
