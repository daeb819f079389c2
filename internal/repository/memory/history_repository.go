package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"reflective-notes-be/internal/entity"
	"reflective-notes-be/internal/repository/contract"
	"reflective-notes-be/pkg/annotate"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// HistoryRepository keeps notes in process. Used for local runs without a
// database and in tests.
type HistoryRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.HistoryRepository = &HistoryRepository{}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{cache: cache.New(cache.NoExpiration, 0)}
}

func (r *HistoryRepository) load(userId string, id uuid.UUID) (entity.HistoryNote, bool) {
	x, found := r.cache.Get(id.String())
	if !found {
		return entity.HistoryNote{}, false
	}
	note := x.(entity.HistoryNote)
	if note.UserId != userId {
		return entity.HistoryNote{}, false
	}
	return note, true
}

func (r *HistoryRepository) Create(ctx context.Context, note *entity.HistoryNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if note.Id == uuid.Nil {
		note.Id = uuid.New()
	}
	if err := r.cache.Add(note.Id.String(), *note, cache.NoExpiration); err != nil {
		return fmt.Errorf("note %s: %w", note.Id, err)
	}
	return nil
}

func (r *HistoryRepository) UpdateContent(ctx context.Context, note *entity.HistoryNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.load(note.UserId, note.Id)
	if !ok || cur.LastEdited.After(note.LastEdited) {
		return fmt.Errorf("note %s: %w", note.Id, annotate.ErrPersistenceConflict)
	}
	cur.Content = note.Content
	cur.LastEdited = note.LastEdited
	r.cache.Set(cur.Id.String(), cur, cache.NoExpiration)
	return nil
}

func (r *HistoryRepository) Rename(ctx context.Context, userId string, id uuid.UUID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.load(userId, id)
	if !ok {
		return contract.ErrRecordNotFound
	}
	cur.Title = title
	r.cache.Set(id.String(), cur, cache.NoExpiration)
	return nil
}

func (r *HistoryRepository) Delete(ctx context.Context, userId string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.load(userId, id); !ok {
		return contract.ErrRecordNotFound
	}
	r.cache.Delete(id.String())
	return nil
}

func (r *HistoryRepository) FindByID(ctx context.Context, userId string, id uuid.UUID) (*entity.HistoryNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.load(userId, id)
	if !ok {
		return nil, nil
	}
	return &note, nil
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userId string, page contract.Page) ([]*entity.HistoryNote, error) {
	r.mu.Lock()
	var notes []*entity.HistoryNote
	for _, item := range r.cache.Items() {
		note := item.Object.(entity.HistoryNote)
		if note.UserId == userId {
			notes = append(notes, &note)
		}
	}
	r.mu.Unlock()

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].LastEdited.Equal(notes[j].LastEdited) {
			return notes[i].Id.String() < notes[j].Id.String()
		}
		return notes[i].LastEdited.After(notes[j].LastEdited)
	})

	if page.Offset > 0 {
		if page.Offset >= len(notes) {
			return []*entity.HistoryNote{}, nil
		}
		notes = notes[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(notes) {
		notes = notes[:page.Limit]
	}
	if notes == nil {
		notes = []*entity.HistoryNote{}
	}
	return notes, nil
}

func (r *HistoryRepository) CountByUser(ctx context.Context, userId string) (int64, error) {
	notes, err := r.ListByUser(ctx, userId, contract.Page{})
	if err != nil {
		return 0, err
	}
	return int64(len(notes)), nil
}
