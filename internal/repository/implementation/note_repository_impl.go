package implementation

import (
	"context"
	"errors"
	"fmt"

	"reflective-notes-be/internal/entity"
	"reflective-notes-be/internal/mapper"
	"reflective-notes-be/internal/model"
	"reflective-notes-be/internal/repository/contract"
	"reflective-notes-be/internal/repository/specification"
	"reflective-notes-be/pkg/annotate"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HistoryNoteMapper
}

func NewHistoryRepository(db *gorm.DB) contract.HistoryRepository {
	return &HistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewHistoryNoteMapper(),
	}
}

func (r *HistoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *HistoryRepositoryImpl) Create(ctx context.Context, note *entity.HistoryNote) error {
	if note.Id == uuid.Nil {
		note.Id = uuid.New()
	}
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *HistoryRepositoryImpl) UpdateContent(ctx context.Context, note *entity.HistoryNote) error {
	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.HistoryNote{}),
		specification.ByID{ID: note.Id},
		specification.HistoryOwnedByUser{UserID: note.UserId},
		specification.EditedNotAfter{At: note.LastEdited},
	)
	res := query.Updates(map[string]interface{}{
		"content":     note.Content,
		"last_edited": note.LastEdited,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("note %s: %w", note.Id, annotate.ErrPersistenceConflict)
	}
	return nil
}

func (r *HistoryRepositoryImpl) Rename(ctx context.Context, userId string, id uuid.UUID, title string) error {
	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.HistoryNote{}),
		specification.ByID{ID: id},
		specification.HistoryOwnedByUser{UserID: userId},
	)
	res := query.Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrRecordNotFound
	}
	return nil
}

func (r *HistoryRepositoryImpl) Delete(ctx context.Context, userId string, id uuid.UUID) error {
	query := r.applySpecifications(
		r.db.WithContext(ctx),
		specification.ByID{ID: id},
		specification.HistoryOwnedByUser{UserID: userId},
	)
	res := query.Delete(&model.HistoryNote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrRecordNotFound
	}
	return nil
}

func (r *HistoryRepositoryImpl) FindByID(ctx context.Context, userId string, id uuid.UUID) (*entity.HistoryNote, error) {
	var m model.HistoryNote
	query := r.applySpecifications(
		r.db.WithContext(ctx),
		specification.ByID{ID: id},
		specification.HistoryOwnedByUser{UserID: userId},
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *HistoryRepositoryImpl) ListByUser(ctx context.Context, userId string, page contract.Page) ([]*entity.HistoryNote, error) {
	var models []*model.HistoryNote
	query := r.applySpecifications(
		r.db.WithContext(ctx),
		specification.HistoryOwnedByUser{UserID: userId},
		specification.NewestEditedFirst,
		specification.Pagination{Limit: page.Limit, Offset: page.Offset},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *HistoryRepositoryImpl) CountByUser(ctx context.Context, userId string) (int64, error) {
	var count int64
	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.HistoryNote{}),
		specification.HistoryOwnedByUser{UserID: userId},
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
