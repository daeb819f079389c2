package events

import "time"

const (
	TypeNoteCreated = "NOTE_CREATED"
	TypeNoteSynced  = "NOTE_SYNCED"
)

// Event is anything published on the cross-service bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewNoteEvent describes a confirmed note write. created selects NOTE_CREATED
// over NOTE_SYNCED.
func NewNoteEvent(created bool, userID, noteID string, lastEdited time.Time) BaseEvent {
	eventType := TypeNoteSynced
	if created {
		eventType = TypeNoteCreated
	}
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"user_id":     userID,
			"note_id":     noteID,
			"last_edited": lastEdited,
		},
		OccurredAt: time.Now(),
	}
}
