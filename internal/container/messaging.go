package container

import (
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/cache"
	"github.com/serroba/shortlink/internal/invalidation"
	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

// MessagingPackage provides the invalidation bus: the publisher used after removals and the
// consumer group that evicts codes removed by other workers.
func MessagingPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (messaging.PubSub, error) {
		opts := do.MustInvoke[*Options](i)
		logger := messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i))

		switch opts.Invalidation {
		case InvalidationNone:
			return messaging.NewInProcessPubSub(logger), nil
		case InvalidationRedis:
			client := do.MustInvoke[*RedisClient](i)

			return messaging.NewRedisStreamPubSub(
				client.Client,
				invalidation.StreamLimits(opts.InvalidationStreamLen),
				logger,
			)
		default:
			return messaging.PubSub{}, fmt.Errorf("unknown invalidation %q", opts.Invalidation)
		}
	})

	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		pubsub := do.MustInvoke[messaging.PubSub](i)

		return messaging.NewPublisherGroup(pubsub.Publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		pubsub := do.MustInvoke[messaging.PubSub](i)
		lookup := do.MustInvoke[*cache.Lookup](i)
		worker := do.MustInvoke[Worker](i)
		logger := do.MustInvoke[*zap.Logger](i)

		group := messaging.NewConsumerGroup(pubsub.Subscriber, logger)
		group.Add(invalidation.NewConsumer(pubsub.Subscriber, lookup, worker.ID, logger))

		return group, nil
	})
}
