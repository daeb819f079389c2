package mapper

import (
	"reflective-notes-be/internal/entity"
	"reflective-notes-be/internal/model"
)

type HistoryNoteMapper struct{}

func NewHistoryNoteMapper() *HistoryNoteMapper {
	return &HistoryNoteMapper{}
}

func (m *HistoryNoteMapper) ToEntity(n *model.HistoryNote) *entity.HistoryNote {
	if n == nil {
		return nil
	}
	return &entity.HistoryNote{
		Id:         n.Id,
		UserId:     n.UserId,
		Title:      n.Title,
		Content:    n.Content,
		CreatedOn:  n.CreatedOn,
		LastEdited: n.LastEdited,
	}
}

func (m *HistoryNoteMapper) ToModel(n *entity.HistoryNote) *model.HistoryNote {
	if n == nil {
		return nil
	}
	return &model.HistoryNote{
		Id:         n.Id,
		UserId:     n.UserId,
		Title:      n.Title,
		Content:    n.Content,
		CreatedOn:  n.CreatedOn,
		LastEdited: n.LastEdited,
	}
}

func (m *HistoryNoteMapper) ToEntities(notes []*model.HistoryNote) []*entity.HistoryNote {
	entities := make([]*entity.HistoryNote, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
