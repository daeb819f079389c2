package contract

import (
	"context"

	"reflective-notes-be/internal/entity"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
	// EnsureExists creates an empty users/{id} record when none exists.
	EnsureExists(ctx context.Context, id string) error
}
