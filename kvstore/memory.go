package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryBackend keeps every client namespace in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Scope(clientID string) Store {
	return &memoryStore{backend: b, prefix: clientPrefix(clientID)}
}

// Raw returns the stored bytes for a namespaced key. Used by tests.
func (b *MemoryBackend) Raw(clientID, key string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[clientPrefix(clientID)+key]
	return v, ok
}

// PutRaw stores bytes without encoding. Used by tests to plant corrupt data.
func (b *MemoryBackend) PutRaw(clientID, key string, raw []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[clientPrefix(clientID)+key] = raw
}

type memoryStore struct {
	backend *MemoryBackend
	prefix  string
}

func (s *memoryStore) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	s.backend.mu.RLock()
	raw, ok := s.backend.data[s.prefix+key]
	s.backend.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.backend.mu.Lock()
	s.backend.data[s.prefix+key] = raw
	s.backend.mu.Unlock()
	return nil
}

func (s *memoryStore) Remove(_ context.Context, key string) error {
	s.backend.mu.Lock()
	delete(s.backend.data, s.prefix+key)
	s.backend.mu.Unlock()
	return nil
}
