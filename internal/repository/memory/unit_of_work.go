package memory

import (
	"context"

	"reflective-notes-be/internal/repository/contract"
	"reflective-notes-be/internal/repository/unitofwork"
)

// RepositoryFactory hands out units of work over one shared in-process
// dataset. Writes apply immediately; Rollback does not undo them.
type RepositoryFactory struct {
	users   *UserRepository
	history *HistoryRepository
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{
		users:   NewUserRepository(),
		history: NewHistoryRepository(),
	}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{factory: f}
}

type unitOfWork struct {
	factory *RepositoryFactory
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return u.factory.users
}

func (u *unitOfWork) HistoryRepository() contract.HistoryRepository {
	return u.factory.history
}
