package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reflective-notes-be/internal/dto"
	"reflective-notes-be/internal/entity"
	"reflective-notes-be/internal/pkg/serverutils"
	"reflective-notes-be/internal/repository/contract"
	"reflective-notes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	previewLength       = 40
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type IHistoryService interface {
	List(ctx context.Context, userId string, limit, offset int) (*dto.HistoryListResponse, error)
	Show(ctx context.Context, userId string, id uuid.UUID) (*dto.ShowHistoryResponse, error)
	Rename(ctx context.Context, userId string, req *dto.RenameHistoryRequest) error
	Delete(ctx context.Context, userId string, id uuid.UUID) error
}

type historyService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewHistoryService(uowFactory unitofwork.RepositoryFactory) IHistoryService {
	return &historyService{uowFactory: uowFactory}
}

func (s *historyService) List(ctx context.Context, userId string, limit, offset int) (*dto.HistoryListResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).HistoryRepository()
	notes, err := repo.ListByUser(ctx, userId, contract.Page{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	total, err := repo.CountByUser(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("count history: %w", err)
	}

	items := make([]dto.HistoryItemResponse, 0, len(notes))
	for _, n := range notes {
		items = append(items, dto.HistoryItemResponse{
			Id:         n.Id,
			Title:      n.Title,
			Preview:    Preview(n.Content),
			LastEdited: n.LastEdited,
		})
	}

	return &dto.HistoryListResponse{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *historyService) Show(ctx context.Context, userId string, id uuid.UUID) (*dto.ShowHistoryResponse, error) {
	note, err := s.uowFactory.NewUnitOfWork(ctx).HistoryRepository().FindByID(ctx, userId, id)
	if err != nil {
		return nil, fmt.Errorf("show history: %w", err)
	}
	if note == nil {
		return nil, serverutils.NotFound("Note not found")
	}
	return showResponse(note), nil
}

func (s *historyService) Rename(ctx context.Context, userId string, req *dto.RenameHistoryRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return serverutils.BadRequest("Title cannot be blank", nil)
	}
	err := s.uowFactory.NewUnitOfWork(ctx).HistoryRepository().Rename(ctx, userId, req.Id, title)
	if errors.Is(err, contract.ErrRecordNotFound) {
		return serverutils.NotFound("Note not found")
	}
	return err
}

func (s *historyService) Delete(ctx context.Context, userId string, id uuid.UUID) error {
	err := s.uowFactory.NewUnitOfWork(ctx).HistoryRepository().Delete(ctx, userId, id)
	if errors.Is(err, contract.ErrRecordNotFound) {
		return serverutils.NotFound("Note not found")
	}
	return err
}

func showResponse(n *entity.HistoryNote) *dto.ShowHistoryResponse {
	return &dto.ShowHistoryResponse{
		Id:         n.Id,
		Title:      n.Title,
		Content:    n.Content,
		CreatedOn:  n.CreatedOn,
		LastEdited: n.LastEdited,
	}
}

// Preview is the first 40 runes of the content, with "..." when cut.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
