package service

import (
	"context"
	"fmt"

	"reflective-notes-be/internal/dto"
	"reflective-notes-be/internal/entity"
	"reflective-notes-be/internal/repository/unitofwork"
)

type IProfileService interface {
	GetProfile(ctx context.Context, userId string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userId string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProfileService(uowFactory unitofwork.RepositoryFactory) IProfileService {
	return &profileService{uowFactory: uowFactory}
}

func (s *profileService) load(ctx context.Context, uow unitofwork.UnitOfWork, userId string) (*entity.User, error) {
	if err := uow.UserRepository().EnsureExists(ctx, userId); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	user, err := uow.UserRepository().FindByID(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s vanished", userId)
	}
	return user, nil
}

func (s *profileService) GetProfile(ctx context.Context, userId string) (*dto.ProfileResponse, error) {
	user, err := s.load(ctx, s.uowFactory.NewUnitOfWork(ctx), userId)
	if err != nil {
		return nil, err
	}
	return profileResponse(user), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userId string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := s.load(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if user.Fields == nil {
		user.Fields = map[string]interface{}{}
	}
	for k, v := range req.Fields {
		if v == nil {
			delete(user.Fields, k)
			continue
		}
		user.Fields[k] = v
	}

	if err := uow.UserRepository().Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return profileResponse(user), nil
}

func profileResponse(u *entity.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		Id:        u.Id,
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		Fields:    u.Fields,
		UpdatedAt: u.UpdatedAt,
	}
}
