package cache

import (
	"context"
	"errors"

	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// Lookup adapts a Backend to shortener.Cache. Backend failures are logged and
// downgraded: a failed get is a miss, a failed set or delete is dropped.
type Lookup struct {
	backend Backend
	logger  *zap.Logger
}

// NewLookup creates the cache boundary used by the shortening service.
func NewLookup(backend Backend, logger *zap.Logger) *Lookup {
	return &Lookup{
		backend: backend,
		logger:  logger,
	}
}

func (l *Lookup) Get(ctx context.Context, code shortener.Code) (string, bool) {
	value, err := l.backend.Get(ctx, string(code))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			l.logger.Warn("cache get failed, treating as miss",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}

		return "", false
	}

	return value, true
}

func (l *Lookup) Set(ctx context.Context, code shortener.Code, url string) {
	if err := l.backend.Set(ctx, string(code), url); err != nil {
		l.logger.Warn("cache set failed",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}
}

func (l *Lookup) Delete(ctx context.Context, codes ...shortener.Code) {
	if len(codes) == 0 {
		return
	}

	if err := l.backend.Delete(ctx, shortener.Strings(codes)...); err != nil {
		l.logger.Warn("cache delete failed",
			zap.Strings("codes", shortener.Strings(codes)),
			zap.Error(err),
		)
	}
}

// Ping checks the backend; used by health checks only.
func (l *Lookup) Ping(ctx context.Context) error {
	return l.backend.Ping(ctx)
}

var _ shortener.Cache = (*Lookup)(nil)
