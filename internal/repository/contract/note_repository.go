package contract

import (
	"context"
	"errors"

	"reflective-notes-be/internal/entity"

	"github.com/google/uuid"
)

var ErrRecordNotFound = errors.New("record not found")

type Page struct {
	Limit  int
	Offset int
}

// HistoryRepository stores note snapshots. Every method is scoped to the
// owning user; a note of another user behaves as missing.
type HistoryRepository interface {
	Create(ctx context.Context, note *entity.HistoryNote) error
	// UpdateContent writes Content and LastEdited only, and only if the stored
	// LastEdited is not newer. A write that cannot apply returns
	// annotate.ErrPersistenceConflict.
	UpdateContent(ctx context.Context, note *entity.HistoryNote) error
	Rename(ctx context.Context, userId string, id uuid.UUID, title string) error
	Delete(ctx context.Context, userId string, id uuid.UUID) error
	FindByID(ctx context.Context, userId string, id uuid.UUID) (*entity.HistoryNote, error)
	// ListByUser returns notes most recently edited first.
	ListByUser(ctx context.Context, userId string, page Page) ([]*entity.HistoryNote, error)
	CountByUser(ctx context.Context, userId string) (int64, error)
}
