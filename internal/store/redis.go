package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Repository.
// It relies on the server's persistence (AOF/RDB) for durability.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "link:",
	}
}

func (r *RedisStore) Find(ctx context.Context, code shortener.Code) (string, bool, error) {
	url, err := r.client.Get(ctx, r.prefix+string(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, shortener.StoreError("find", err)
	}

	return url, true, nil
}

// Insert uses SETNX so a concurrent writer that bound the same code first wins.
func (r *RedisStore) Insert(ctx context.Context, link *shortener.ShortLink) error {
	ok, err := r.client.SetNX(ctx, r.prefix+string(link.Code), link.OriginalURL, 0).Result()
	if err != nil {
		return shortener.StoreError("insert", err)
	}

	if !ok {
		return shortener.ErrCodeTaken
	}

	return nil
}

func (r *RedisStore) DeleteMany(ctx context.Context, codes []shortener.Code) error {
	if len(codes) == 0 {
		return nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = r.prefix + string(code)
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return shortener.StoreError("delete", err)
	}

	return nil
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ shortener.Repository = (*RedisStore)(nil)
