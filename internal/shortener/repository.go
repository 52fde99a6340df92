package shortener

import "context"

// Repository is the durable mapping from code to URL.
type Repository interface {
	// Find returns the URL bound to code. A missing code is reported through found, not err.
	Find(ctx context.Context, code Code) (url string, found bool, err error)

	// Insert stores a new binding. It does not check uniqueness itself, but backends that can
	// detect a conflicting binding atomically return ErrCodeTaken.
	Insert(ctx context.Context, link *ShortLink) error

	// DeleteMany removes every given code. Missing codes are not an error.
	DeleteMany(ctx context.Context, codes []Code) error
}

// Cache is the ephemeral lookup accelerator in front of a Repository.
// Implementations absorb their own failures: a broken cache behaves like an empty one.
type Cache interface {
	Get(ctx context.Context, code Code) (string, bool)
	Set(ctx context.Context, code Code, url string)
	Delete(ctx context.Context, codes ...Code)
}
