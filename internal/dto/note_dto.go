package dto

import (
	"time"

	"github.com/google/uuid"
)

type HistoryItemResponse struct {
	Id         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Preview    string    `json:"preview"`
	LastEdited time.Time `json:"last_edited"`
}

type HistoryListResponse struct {
	Items  []HistoryItemResponse `json:"items"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

type ShowHistoryResponse struct {
	Id         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedOn  time.Time `json:"created_on"`
	LastEdited time.Time `json:"last_edited"`
}

type RenameHistoryRequest struct {
	Id    uuid.UUID `json:"-"`
	Title string    `json:"title" validate:"required,max=255"`
}

// NotePersistedMessage travels on the in-process bus after every confirmed
// write of an editing session.
type NotePersistedMessage struct {
	UserId     string    `json:"user_id"`
	NoteId     string    `json:"note_id"`
	SessionKey string    `json:"session_key"`
	Created    bool      `json:"created"`
	LastEdited time.Time `json:"last_edited"`
}
