package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"medichat-web/internal/constant"
	"medichat-web/internal/pkg/logger"
	"medichat-web/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	mu  sync.Mutex
	got []events.Event
}

func (f *recordingForwarder) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, event)
	return nil
}

func (f *recordingForwarder) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func TestActivityEventsReachForwarder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	forwarder := &recordingForwarder{}
	consumer := NewConsumerService(pubSub, "activity", forwarder, logger.NewNop())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("activity", pubSub, logger.NewNop())
	publisher.PublishEvent(ctx, events.New(constant.EventLogout, map[string]interface{}{"client_id": "c1"}))
	require.NoError(t, publisher.Publish(ctx, []byte("not an event")))
	publisher.PublishEvent(ctx, events.New(constant.EventChatTurn, map[string]interface{}{"client_id": "c1"}))

	require.Eventually(t, func() bool { return forwarder.Len() == 2 }, time.Second, 10*time.Millisecond)

	forwarder.mu.Lock()
	defer forwarder.mu.Unlock()
	assert.Equal(t, constant.EventLogout, forwarder.got[0].EventType())
	assert.Equal(t, constant.EventChatTurn, forwarder.got[1].EventType())
}
