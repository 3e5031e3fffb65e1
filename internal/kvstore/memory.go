package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// memoryStore is an in-process Store used by unit tests and as a
// zero-dependency backend for local development.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{
		data: make(map[string]json.RawMessage),
	}
}

func (s *memoryStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value at %s: %w", key, err)
	}
	return true, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) MGet(ctx context.Context, keys []string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([]json.RawMessage, len(keys))
	for i, key := range keys {
		if raw, ok := s.data[key]; ok {
			values[i] = raw
		}
	}
	return values, nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
