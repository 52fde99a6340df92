package shortener_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/shortlink/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com"

// sequence returns a generator that yields codes in order, repeating the last one.
func sequence(codes ...string) shortener.CodeGenerator {
	var (
		mu sync.Mutex
		i  int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		c := codes[min(i, len(codes)-1)]
		i++

		return c
	}
}

// mockStore wraps a map and can be configured to fail.
type mockStore struct {
	mu        sync.Mutex
	links     map[shortener.Code]string
	findErr   error
	insertErr error
	deleteErr func(codes []shortener.Code) error
	finds     int
	inserts   int
}

func newMockStore() *mockStore {
	return &mockStore{links: make(map[shortener.Code]string)}
}

func (m *mockStore) Find(_ context.Context, code shortener.Code) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.finds++

	if m.findErr != nil {
		return "", false, m.findErr
	}

	url, ok := m.links[code]

	return url, ok, nil
}

func (m *mockStore) Insert(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inserts++

	if m.insertErr != nil {
		return m.insertErr
	}

	m.links[link.Code] = link.OriginalURL

	return nil
}

func (m *mockStore) DeleteMany(_ context.Context, codes []shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		if err := m.deleteErr(codes); err != nil {
			return err
		}
	}

	for _, c := range codes {
		delete(m.links, c)
	}

	return nil
}

// mockCache is a map-backed shortener.Cache that can simulate an outage.
type mockCache struct {
	mu      sync.Mutex
	entries map[shortener.Code]string
	down    bool
	gets    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[shortener.Code]string)}
}

func (m *mockCache) Get(_ context.Context, code shortener.Code) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++

	if m.down {
		return "", false
	}

	url, ok := m.entries[code]

	return url, ok
}

func (m *mockCache) Set(_ context.Context, code shortener.Code, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets++

	if !m.down {
		m.entries[code] = url
	}
}

func (m *mockCache) Delete(_ context.Context, codes ...shortener.Code) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range codes {
		delete(m.entries, c)
	}
}

func (m *mockCache) has(code shortener.Code) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[code]

	return ok
}
