package service

import (
	"context"
	"encoding/json"
	"fmt"

	"reflective-notes-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const NotePersistedTopic = "note.persisted"

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	PublishPersisted(ctx context.Context, msg dto.NotePersistedMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (s *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return s.publisher.Publish(s.topicName, msg)
}

func (s *publisherService) PublishPersisted(ctx context.Context, msg dto.NotePersistedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal persisted message: %w", err)
	}
	return s.Publish(ctx, payload)
}
