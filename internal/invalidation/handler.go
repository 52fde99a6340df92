package invalidation

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// NewEvictHandler returns a handler that drops removed codes from the local cache.
func NewEvictHandler(cache shortener.Cache, logger *zap.Logger) messaging.Handler[LinksRemovedEvent] {
	return func(ctx context.Context, event *LinksRemovedEvent) error {
		codes := shortener.Codes(event.Codes)
		if len(codes) == 0 {
			return nil
		}

		cache.Delete(ctx, codes...)

		logger.Debug("evicted removed codes",
			zap.Int("count", len(codes)),
			zap.Int("origin_worker", event.Worker),
		)

		return nil
	}
}

// NewConsumer subscribes the worker's cache to removals published by every other worker.
func NewConsumer(
	subscriber message.Subscriber,
	cache shortener.Cache,
	workerID int,
	logger *zap.Logger,
) *messaging.Consumer[LinksRemovedEvent] {
	return messaging.NewConsumer(
		subscriber,
		TopicLinksRemoved,
		NewEvictHandler(cache, logger),
		logger,
		messaging.IgnoreOrigin(workerID),
	)
}
