package memory

import (
	"context"
	"time"

	"reflective-notes-be/pkg/notesync"

	"github.com/patrickmn/go-cache"
)

// IdentityStore remembers session identities in process, for single
// instance deployments.
type IdentityStore struct {
	cache *cache.Cache
}

func NewIdentityStore(ttl time.Duration) *IdentityStore {
	return &IdentityStore{cache: cache.New(ttl, 10*time.Minute)}
}

func (s *IdentityStore) Load(ctx context.Context, sessionKey string) (*notesync.Identity, error) {
	if x, found := s.cache.Get(sessionKey); found {
		id := x.(notesync.Identity)
		return &id, nil
	}
	return nil, nil
}

func (s *IdentityStore) Save(ctx context.Context, sessionKey string, id notesync.Identity) error {
	s.cache.Set(sessionKey, id, cache.DefaultExpiration)
	return nil
}
