package cache

import (
	"context"
	"sync"
)

// MemoryBackend is a process-local Backend. Once maxEntries is reached an arbitrary entry
// is evicted for every new key; maxEntries <= 0 means unbounded.
type MemoryBackend struct {
	mu         sync.RWMutex
	entries    map[string]string
	maxEntries int
}

// NewMemoryBackend creates a new in-process cache.
func NewMemoryBackend(maxEntries int) *MemoryBackend {
	return &MemoryBackend{
		entries:    make(map[string]string),
		maxEntries: maxEntries,
	}
}

func (m *MemoryBackend) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[key]
	if !ok {
		return "", ErrMiss
	}

	return value, nil
}

func (m *MemoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		for k := range m.entries {
			delete(m.entries, k)

			break
		}
	}

	m.entries[key] = value

	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.entries, k)
	}

	return nil
}

// Len reports the number of cached entries.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

func (m *MemoryBackend) Ping(_ context.Context) error {
	return nil
}

var _ Backend = (*MemoryBackend)(nil)
