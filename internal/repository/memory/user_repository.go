package memory

import (
	"context"
	"sync"
	"time"

	"reflective-notes-be/internal/entity"
	"reflective-notes-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type UserRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.UserRepository = &UserRepository{}

func NewUserRepository() *UserRepository {
	return &UserRepository{cache: cache.New(cache.NoExpiration, 0)}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, nil
	}
	user := x.(entity.User)
	user.Fields = copyFields(user.Fields)
	return &user, nil
}

func (r *UserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	stored := *user
	stored.Fields = copyFields(user.Fields)
	r.cache.Set(user.Id, stored, cache.NoExpiration)
	return nil
}

func (r *UserRepository) EnsureExists(ctx context.Context, id string) error {
	now := time.Now()
	// Add fails when the id is present, which is the no-op case.
	_ = r.cache.Add(id, entity.User{Id: id, Fields: map[string]interface{}{}, CreatedAt: now, UpdatedAt: now}, cache.NoExpiration)
	return nil
}

func copyFields(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
