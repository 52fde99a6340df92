package messaging

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// PubSub pairs a publisher with the subscriber that receives its messages.
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// NewInProcessPubSub delivers messages between components of one process only.
func NewInProcessPubSub(logger watermill.LoggerAdapter) PubSub {
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)

	return PubSub{Publisher: ch, Subscriber: ch}
}

// NewRedisStreamPubSub broadcasts messages to every process subscribed to the same Redis server.
// No consumer group is configured, so each subscriber receives every message (fan-out).
// maxlens caps each listed topic's stream at roughly that many entries; unlisted topics grow unbounded.
func NewRedisStreamPubSub(
	client redis.UniversalClient,
	maxlens map[string]int64,
	logger watermill.LoggerAdapter,
) (PubSub, error) {
	marshaller := redisstream.DefaultMarshallerUnmarshaller{}

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client:     client,
		Marshaller: marshaller,
		Maxlens:    maxlens,
	}, logger)
	if err != nil {
		return PubSub{}, fmt.Errorf("create redis stream publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:       client,
		Unmarshaller: marshaller,
	}, logger)
	if err != nil {
		_ = publisher.Close()

		return PubSub{}, fmt.Errorf("create redis stream subscriber: %w", err)
	}

	return PubSub{Publisher: publisher, Subscriber: subscriber}, nil
}
