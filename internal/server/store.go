package server

import (
	"context"
	"sync"

	"deasciifier/internal/customdict"
)

// Store persists user-added corrections. customdict.CustomDict is the Redis
// implementation.
type Store interface {
	Put(ctx context.Context, word string, alternatives []string) error
	Remove(ctx context.Context, word string) error
	All(ctx context.Context) (map[string][]string, error)
}

var _ Store = (*customdict.CustomDict)(nil)

// MemoryStore keeps corrections in process memory. It is used when Redis is
// disabled.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string][]string{}}
}

func (m *MemoryStore) Put(_ context.Context, word string, alternatives []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[word] = append([]string(nil), alternatives...)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, word string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, word)
	return nil
}

func (m *MemoryStore) All(_ context.Context) (map[string][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = append([]string(nil), v...)
	}
	return out, nil
}
