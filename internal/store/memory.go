package store

import (
	"context"
	"sync"

	"github.com/serroba/shortlink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[shortener.Code]string
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[shortener.Code]string),
	}
}

func (m *MemoryStore) Find(_ context.Context, code shortener.Code) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.links[code]

	return url, ok, nil
}

func (m *MemoryStore) Insert(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Code]; ok {
		return shortener.ErrCodeTaken
	}

	m.links[link.Code] = link.OriginalURL

	return nil
}

func (m *MemoryStore) DeleteMany(_ context.Context, codes []shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, code := range codes {
		delete(m.links, code)
	}

	return nil
}

// Len reports the number of stored links.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.links)
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

var _ shortener.Repository = (*MemoryStore)(nil)
