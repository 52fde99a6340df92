package cache

import (
	"context"
	"errors"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcachedBackend is a Backend on a memcached server.
// The client has no context support, so ctx is ignored and the client timeout applies.
// Codes that cannot form a memcached key (too long, spaces, control characters) are never cached:
// reads miss and writes are dropped without an error.
type MemcachedBackend struct {
	client *memcache.Client
	prefix string
}

// NewMemcachedBackend creates a memcached cache whose keys all start with prefix.
func NewMemcachedBackend(client *memcache.Client, prefix string) *MemcachedBackend {
	return &MemcachedBackend{
		client: client,
		prefix: prefix,
	}
}

func (m *MemcachedBackend) Get(_ context.Context, key string) (string, error) {
	item, err := m.client.Get(m.prefix + key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) || errors.Is(err, memcache.ErrMalformedKey) {
			return "", ErrMiss
		}

		return "", err
	}

	return string(item.Value), nil
}

func (m *MemcachedBackend) Set(_ context.Context, key, value string) error {
	err := m.client.Set(&memcache.Item{Key: m.prefix + key, Value: []byte(value)})
	if errors.Is(err, memcache.ErrMalformedKey) {
		return nil
	}

	return err
}

func (m *MemcachedBackend) Delete(_ context.Context, keys ...string) error {
	var errs []error

	for _, k := range keys {
		err := m.client.Delete(m.prefix + k)
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) && !errors.Is(err, memcache.ErrMalformedKey) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *MemcachedBackend) Ping(_ context.Context) error {
	return m.client.Ping()
}

// Shutdown closes idle connections to the server.
func (m *MemcachedBackend) Shutdown() error {
	return m.client.Close()
}

var _ Backend = (*MemcachedBackend)(nil)
