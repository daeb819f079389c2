// Package redis keeps editor session identities in Redis so a reload on any
// instance resumes the same note.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reflective-notes-be/pkg/notesync"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "editor:session:"

type IdentityStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewIdentityStore(client *goredis.Client, ttl time.Duration) *IdentityStore {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &IdentityStore{client: client, ttl: ttl}
}

func (s *IdentityStore) key(sessionKey string) string {
	return keyPrefix + sessionKey
}

// Load returns nil without error when the session key is unknown or expired.
func (s *IdentityStore) Load(ctx context.Context, sessionKey string) (*notesync.Identity, error) {
	raw, err := s.client.Get(ctx, s.key(sessionKey)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session identity: %w", err)
	}

	var id notesync.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("decode session identity: %w", err)
	}
	return &id, nil
}

func (s *IdentityStore) Save(ctx context.Context, sessionKey string, id notesync.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session identity: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionKey), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session identity: %w", err)
	}
	return nil
}
