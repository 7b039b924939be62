package service

import (
	"context"

	"medichat-web/internal/pkg/logger"
	"medichat-web/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventForwarder ships activity events off-process. *nats.Publisher is one.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService builds the activity consumer. forwarder may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("Consumer", "Dropping malformed activity message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		// Redelivery cannot fix a malformed payload.
		msg.Ack()
		return
	}

	cs.logger.Info("Activity", event.EventType(), event.Payload())

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("Consumer", "Failed to forward activity event", map[string]interface{}{
				"type":  event.EventType(),
				"error": err,
			})
		}
	}

	msg.Ack()
}
