package messaging_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingPublisher keeps every message per topic.
type recordingPublisher struct {
	mu         sync.Mutex
	byTopic    map[string][]*message.Message
	publishErr error
	closeErr   error
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{byTopic: map[string][]*message.Message{}}
}

func (r *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	if r.publishErr != nil {
		return r.publishErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byTopic[topic] = append(r.byTopic[topic], msgs...)

	return nil
}

func (r *recordingPublisher) Close() error {
	return r.closeErr
}

type ctxKey struct{}

func TestNewPublishFunc(t *testing.T) {
	t.Run("stamps json payload, origin worker and context", func(t *testing.T) {
		pub := newRecordingPublisher()
		publish := messaging.NewPublishFunc[testEvent](pub, "links.removed", 7)
		ctx := context.WithValue(context.Background(), ctxKey{}, "request-1")

		require.NoError(t, publish(ctx, &testEvent{ID: "aB3kX", Name: "removed"}))

		msgs := pub.byTopic["links.removed"]
		require.Len(t, msgs, 1)
		assert.JSONEq(t, `{"id":"aB3kX","name":"removed"}`, string(msgs[0].Payload))
		assert.Equal(t, "7", msgs[0].Metadata.Get(messaging.MetadataOrigin))
		assert.Equal(t, "request-1", msgs[0].Context().Value(ctxKey{}))
		assert.NotEmpty(t, msgs[0].UUID)
	})

	t.Run("gives every message its own id", func(t *testing.T) {
		pub := newRecordingPublisher()
		publish := messaging.NewPublishFunc[testEvent](pub, "links.removed", 0)

		require.NoError(t, publish(context.Background(), &testEvent{ID: "a"}))
		require.NoError(t, publish(context.Background(), &testEvent{ID: "b"}))

		msgs := pub.byTopic["links.removed"]
		require.Len(t, msgs, 2)
		assert.NotEqual(t, msgs[0].UUID, msgs[1].UUID)
	})

	t.Run("surfaces publisher errors", func(t *testing.T) {
		pub := newRecordingPublisher()
		pub.publishErr = errors.New("stream unavailable")
		publish := messaging.NewPublishFunc[testEvent](pub, "links.removed", 0)

		err := publish(context.Background(), &testEvent{ID: "a"})

		assert.ErrorIs(t, err, pub.publishErr)
	})
}

func TestPublishFunc_OriginFiltering(t *testing.T) {
	logger := zap.NewNop()
	ps := messaging.NewInProcessPubSub(messaging.NewZapLogger(logger))
	received := make(chan string, 4)

	consumer := messaging.NewConsumer(ps.Subscriber, "links.removed",
		func(_ context.Context, e *testEvent) error {
			received <- e.ID

			return nil
		},
		logger,
		messaging.IgnoreOrigin(2),
	)
	require.NoError(t, consumer.Start(context.Background()))

	t.Cleanup(func() {
		_ = consumer.Shutdown()
		_ = ps.Publisher.Close()
	})

	fromSelf := messaging.NewPublishFunc[testEvent](ps.Publisher, "links.removed", 2)
	fromSibling := messaging.NewPublishFunc[testEvent](ps.Publisher, "links.removed", 3)

	require.NoError(t, fromSelf(context.Background(), &testEvent{ID: "own"}))
	require.NoError(t, fromSibling(context.Background(), &testEvent{ID: "sibling"}))

	select {
	case id := <-received:
		assert.Equal(t, "sibling", id)
	case <-time.After(time.Second):
		t.Fatal("sibling event not delivered")
	}

	select {
	case id := <-received:
		t.Fatalf("unexpected event %q", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublisherGroup(t *testing.T) {
	t.Run("exposes the publisher it owns", func(t *testing.T) {
		pub := newRecordingPublisher()

		assert.Same(t, pub, messaging.NewPublisherGroup(pub).Publisher())
	})

	t.Run("shutdown reports close errors", func(t *testing.T) {
		pub := newRecordingPublisher()
		pub.closeErr = errors.New("close error")

		assert.ErrorIs(t, messaging.NewPublisherGroup(pub).Shutdown(), pub.closeErr)
	})

	t.Run("publishing after shutdown fails", func(t *testing.T) {
		ps := messaging.NewInProcessPubSub(messaging.NewZapLogger(zap.NewNop()))
		group := messaging.NewPublisherGroup(ps.Publisher)
		publish := messaging.NewPublishFunc[testEvent](group.Publisher(), "links.removed", 0)

		require.NoError(t, group.Shutdown())

		assert.Error(t, publish(context.Background(), &testEvent{ID: "late"}))
	})
}
