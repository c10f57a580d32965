package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps the document in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates a store holding an empty document
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWith(EmptyDocument)
}

// NewMemoryStoreWith creates a store holding a copy of data
func NewMemoryStoreWith(data []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), data...)}
}

func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Driver() string {
	return "memory"
}
