package entity

import (
	"time"

	"github.com/google/uuid"
)

// HistoryNote is one persisted note snapshot at users/{userId}/history/{noteId}.
type HistoryNote struct {
	Id         uuid.UUID
	UserId     string
	Title      string
	Content    string
	CreatedOn  time.Time
	LastEdited time.Time
}
