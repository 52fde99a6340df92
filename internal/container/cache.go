package container

import (
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/cache"
	"go.uber.org/zap"
)

// CachePackage provides the cache backend and the lookup that wraps it for the service.
func CachePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (cache.Backend, error) {
		opts := do.MustInvoke[*Options](i)
		worker := do.MustInvoke[Worker](i)
		prefix := cache.KeyPrefix(cache.Mode(opts.CacheMode), worker.ID)

		switch opts.Cache {
		case CacheMemory:
			return cache.NewMemoryBackend(opts.CacheSize), nil
		case CacheRedis:
			client := do.MustInvoke[*RedisClient](i)

			return cache.NewRedisBackend(client.Client, prefix), nil
		case CacheMemcached:
			return cache.NewMemcachedBackend(memcache.New(splitList(opts.MemcachedAddr)...), prefix), nil
		default:
			return nil, fmt.Errorf("unknown cache %q", opts.Cache)
		}
	})

	do.Provide(i, func(i *do.Injector) (*cache.Lookup, error) {
		backend := do.MustInvoke[cache.Backend](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return cache.NewLookup(backend, logger), nil
	})
}
