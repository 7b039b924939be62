package service

import (
	"context"

	"medichat-web/internal/pkg/logger"
	"medichat-web/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	// PublishEvent never fails the caller; errors are logged.
	PublishEvent(ctx context.Context, event events.Event)
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		logger:    log,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}

func (p *publisherService) PublishEvent(ctx context.Context, event events.Event) {
	payload, err := events.Encode(event)
	if err != nil {
		p.logger.Error("Publisher", "Failed to encode event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err,
		})
		return
	}
	if err := p.Publish(ctx, payload); err != nil {
		p.logger.Warn("Publisher", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err,
		})
	}
}
