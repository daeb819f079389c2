package service

import (
	"context"
	"fmt"

	"reflective-notes-be/internal/entity"
	"reflective-notes-be/internal/repository/unitofwork"
	"reflective-notes-be/pkg/notesync"

	"github.com/google/uuid"
)

// NoteStore is the document store behind editing sessions: it allocates and
// updates users/{userId}/history/{noteId} records.
type NoteStore struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ notesync.Store = &NoteStore{}

func NewNoteStore(uowFactory unitofwork.RepositoryFactory) *NoteStore {
	return &NoteStore{uowFactory: uowFactory}
}

// Create makes sure the account record exists and inserts the note in one
// transaction.
func (s *NoteStore) Create(ctx context.Context, userID string, note notesync.PersistedNote) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().EnsureExists(ctx, userID); err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}

	record := &entity.HistoryNote{
		Id:         uuid.New(),
		UserId:     userID,
		Title:      note.Title,
		Content:    note.Content,
		CreatedOn:  note.CreatedOn,
		LastEdited: note.LastEdited,
	}
	if err := uow.HistoryRepository().Create(ctx, record); err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return "", err
	}
	return record.Id.String(), nil
}

func (s *NoteStore) Update(ctx context.Context, id notesync.Identity, note notesync.PersistedNote) error {
	noteID, err := uuid.Parse(id.NoteID)
	if err != nil {
		return fmt.Errorf("note id %q: %w", id.NoteID, err)
	}
	return s.uowFactory.NewUnitOfWork(ctx).HistoryRepository().UpdateContent(ctx, &entity.HistoryNote{
		Id:         noteID,
		UserId:     id.UserID,
		Content:    note.Content,
		LastEdited: note.LastEdited,
	})
}

// Get reads a note back for a resumed session. A missing note is an error
// so the session starts a fresh one.
func (s *NoteStore) Get(ctx context.Context, id notesync.Identity) (*notesync.PersistedNote, error) {
	noteID, err := uuid.Parse(id.NoteID)
	if err != nil {
		return nil, fmt.Errorf("note id %q: %w", id.NoteID, err)
	}
	note, err := s.uowFactory.NewUnitOfWork(ctx).HistoryRepository().FindByID(ctx, id.UserID, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("note %s not found", id.NoteID)
	}
	return &notesync.PersistedNote{
		Title:      note.Title,
		Content:    note.Content,
		CreatedOn:  note.CreatedOn,
		LastEdited: note.LastEdited,
	}, nil
}
