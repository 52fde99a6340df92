package shortener

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts bounds how many candidate codes Create tries.
	DefaultMaxAttempts = 10

	deleteBatchSize = 100
)

// Service creates, resolves and removes short links using a cache-aside read path.
type Service struct {
	store       Repository
	cache       Cache
	generate    CodeGenerator
	maxAttempts int
	logger      *zap.Logger
}

// NewService creates a new shortening service. A non-positive maxAttempts falls back to DefaultMaxAttempts.
func NewService(store Repository, cache Cache, generator CodeGenerator, maxAttempts int, logger *zap.Logger) *Service {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Service{
		store:       store,
		cache:       cache,
		generate:    generator,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Create binds rawURL to a fresh code. The URL is stored exactly as given.
// The cache is not populated here; the first resolve fills it.
func (s *Service) Create(ctx context.Context, rawURL string) (Code, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", ErrInvalidURL
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code := Code(s.generate())

		_, bound, err := s.lookup(ctx, code)
		if err != nil {
			return "", err
		}

		if bound {
			s.logger.Debug("code collision",
				zap.String("code", string(code)),
				zap.Int("attempt", attempt),
			)

			continue
		}

		err = s.store.Insert(ctx, &ShortLink{Code: code, OriginalURL: rawURL})
		if errors.Is(err, ErrCodeTaken) {
			s.logger.Debug("code taken on insert",
				zap.String("code", string(code)),
				zap.Int("attempt", attempt),
			)

			continue
		}

		if err != nil {
			return "", err
		}

		return code, nil
	}

	s.logger.Warn("code generation exhausted", zap.Int("attempts", s.maxAttempts))

	return "", ErrGenerationExhausted
}

// Resolve returns the URL bound to code, consulting the cache before the store.
func (s *Service) Resolve(ctx context.Context, code Code) Resolution {
	url, found, err := s.lookup(ctx, code)
	if err != nil {
		return Failed(err)
	}

	if !found {
		return NotFound()
	}

	return Found(url)
}

// lookup is the combined cache-then-store read. A store hit is written back to the cache.
func (s *Service) lookup(ctx context.Context, code Code) (string, bool, error) {
	if url, ok := s.cache.Get(ctx, code); ok {
		return url, true, nil
	}

	url, found, err := s.store.Find(ctx, code)
	if err != nil {
		return "", false, err
	}

	if !found {
		return "", false, nil
	}

	s.cache.Set(ctx, code, url)

	return url, true, nil
}

// RemoveResult reports which codes were removed and which could not be.
type RemoveResult struct {
	Removed []Code
	Failed  []Code
}

// Remove deletes codes from the store in batches and evicts every successfully deleted code
// from the cache. The store is always cleared before the cache.
func (s *Service) Remove(ctx context.Context, codes []Code) (*RemoveResult, error) {
	if len(codes) == 0 {
		return nil, ErrNoCodes
	}

	result := &RemoveResult{
		Removed: make([]Code, 0, len(codes)),
		Failed:  make([]Code, 0),
	}

	for start := 0; start < len(codes); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(codes))
		batch := codes[start:end]

		if err := s.store.DeleteMany(ctx, batch); err != nil {
			s.logger.Error("failed to delete codes",
				zap.Strings("codes", Strings(batch)),
				zap.Error(err),
			)

			result.Failed = append(result.Failed, batch...)

			continue
		}

		s.cache.Delete(ctx, batch...)
		result.Removed = append(result.Removed, batch...)
	}

	return result, nil
}
