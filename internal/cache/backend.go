package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrMiss is returned by a Backend when a key is absent.
var ErrMiss = errors.New("cache miss")

// Backend is a raw key/value cache. Unlike Lookup it reports its failures.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// Mode controls whether workers share one cache key space.
type Mode string

const (
	// ModeSharded gives every worker its own key space.
	ModeSharded Mode = "sharded"
	// ModeShared lets all workers read each other's entries.
	ModeShared Mode = "shared"
)

// KeyPrefix returns the key prefix used by worker workerID under mode.
func KeyPrefix(mode Mode, workerID int) string {
	if mode == ModeShared {
		return "cache:"
	}

	return fmt.Sprintf("cache:w%d:", workerID)
}
