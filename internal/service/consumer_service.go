package service

import (
	"context"
	"encoding/json"

	"reflective-notes-be/internal/dto"
	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher forwards events to other services (NATS in production).
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// UserNotifier pushes a frame to every connected device of a user.
type UserNotifier interface {
	SendToUser(userID string, payload []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	events     EventPublisher // optional
	notifier   UserNotifier   // optional
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	events EventPublisher,
	notifier UserNotifier,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		events:     events,
		notifier:   notifier,
		logger:     log,
	}
}

// Consume subscribes and processes messages in the background until ctx ends.
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
	// Fan-out is best effort: every message is acked, failures are only logged.
	defer msg.Ack()

	var payload dto.NotePersistedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		return
	}

	if cs.events != nil {
		evt := events.NewNoteEvent(payload.Created, payload.UserId, payload.NoteId, payload.LastEdited)
		if err := cs.events.Publish(ctx, evt); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to publish note event", map[string]interface{}{
				"error":   err.Error(),
				"type":    evt.EventType(),
				"note_id": payload.NoteId,
			})
		}
	}

	if cs.notifier != nil {
		frame, _ := json.Marshal(dto.EditorHistoryChangedFrame{
			Type:       dto.FrameHistoryChanged,
			NoteId:     payload.NoteId,
			SessionKey: payload.SessionKey,
		})
		cs.notifier.SendToUser(payload.UserId, frame)
	}
}
