package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflective-notes-be/pkg/notesync"
)

func setupStore(t *testing.T, ttl time.Duration) (*IdentityStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewIdentityStore(client, ttl), s
}

func TestIdentityStore_SaveAndLoad(t *testing.T) {
	store, s := setupStore(t, time.Hour)
	ctx := context.Background()

	missing, err := store.Load(ctx, "tab-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	want := notesync.Identity{UserID: "u1", NoteID: "8d3c5a8e-8a77-4c1a-9f0e-1f2b3c4d5e6f"}
	require.NoError(t, store.Save(ctx, "tab-1", want))
	assert.True(t, s.Exists("editor:session:tab-1"))

	got, err := store.Load(ctx, "tab-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestIdentityStore_Expires(t *testing.T) {
	store, s := setupStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tab-2", notesync.Identity{UserID: "u1", NoteID: "n1"}))
	s.FastForward(2 * time.Minute)

	got, err := store.Load(ctx, "tab-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdentityStore_CorruptValue(t *testing.T) {
	store, s := setupStore(t, time.Hour)
	require.NoError(t, s.Set("editor:session:tab-3", "{not json"))

	_, err := store.Load(context.Background(), "tab-3")
	assert.Error(t, err)
}

func TestIdentityStore_ServerDown(t *testing.T) {
	store, s := setupStore(t, time.Hour)
	s.Close()

	_, err := store.Load(context.Background(), "tab-4")
	assert.Error(t, err)
}
