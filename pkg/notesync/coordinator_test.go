package notesync

import (
	"context"
	"sync"
	"testing"
	"time"

	"reflective-notes-be/pkg/annotate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_FlushWritesLatestOnly(t *testing.T) {
	store := newFakeStore()
	var identities []Identity
	c := NewCoordinator(store, "u1", nil, Options{
		Debounce:   time.Hour, // flushed by hand
		OnIdentity: func(id Identity) { identities = append(identities, id) },
	})

	c.Submit("a")
	c.Submit("ab")
	c.Submit("abc")

	out, err := c.Flush(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Wrote)
	assert.Equal(t, []string{"abc"}, store.order)

	// nothing new since the last flush
	out, err = c.Flush(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Wrote)
	assert.Equal(t, 1, store.writes())

	require.Len(t, identities, 1)
	assert.Equal(t, "note-1", identities[0].NoteID)
	assert.Equal(t, &identities[0], c.Identity())
	assert.Equal(t, "abc", c.LastPersisted())

	require.NoError(t, c.Close(context.Background()))
}

func TestCoordinator_SameContentSubmittedTwiceWritesOnce(t *testing.T) {
	store := newFakeStore()
	c := NewCoordinator(store, "u1", nil, Options{Debounce: time.Hour})

	c.Submit("hello")
	_, err := c.Flush(context.Background())
	require.NoError(t, err)

	c.Submit("hello")
	out, err := c.Flush(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Wrote)
	assert.Equal(t, 1, store.writes())
}

func TestCoordinator_DebounceCoalesces(t *testing.T) {
	store := newFakeStore()
	persisted := make(chan Output, 4)
	c := NewCoordinator(store, "u1", nil, Options{
		Debounce:    20 * time.Millisecond,
		OnPersisted: func(o Output) { persisted <- o },
	})

	for _, s := range []string{"h", "he", "hel", "hell", "hello"} {
		c.Submit(s)
	}

	select {
	case out := <-persisted:
		assert.Equal(t, "hello", out.LastPersisted)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced flush never happened")
	}
	assert.Equal(t, 1, store.writes())
	require.NoError(t, c.Close(context.Background()))
}

func TestCoordinator_WritesAreSerialized(t *testing.T) {
	store := newFakeStore()
	store.delay = 5 * time.Millisecond
	c := NewCoordinator(store, "u1", nil, Options{Debounce: time.Hour})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Submit(string(rune('a' + i)))
			_, _ = c.Flush(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, store.maxSeen, "two writes overlapped")
	assert.Equal(t, 1, store.creates, "one identity per session")
}

func TestCoordinator_FailedWriteIsRetried(t *testing.T) {
	store := newFakeStore()
	store.failNext = annotate.ErrNetworkFailure
	var errs []error
	c := NewCoordinator(store, "u1", nil, Options{
		Debounce: time.Hour,
		OnError:  func(err error) { errs = append(errs, err) },
	})

	c.Submit("draft")
	_, err := c.Flush(context.Background())
	require.Error(t, err)
	assert.Equal(t, "", c.LastPersisted())
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], annotate.ErrNetworkFailure)

	out, err := c.Flush(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Wrote)
	assert.Equal(t, "draft", c.LastPersisted())
}

func TestCoordinator_ResumedSessionSkipsUnchangedText(t *testing.T) {
	store := newFakeStore()
	store.notes["n1"] = PersistedNote{Content: "restored"}
	id := &Identity{UserID: "u1", NoteID: "n1"}

	c := NewCoordinator(store, "u1", id, Options{Debounce: time.Hour, LastPersisted: "restored", LastEdited: t0})
	c.Submit("restored")
	out, err := c.Flush(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Wrote)

	c.Submit("restored and more")
	out, err = c.Flush(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Wrote)
	assert.Equal(t, "n1", out.Identity.NoteID)
	assert.Equal(t, 0, store.creates)
}

func TestCoordinator_CloseFlushesPending(t *testing.T) {
	store := newFakeStore()
	c := NewCoordinator(store, "u1", nil, Options{Debounce: time.Hour})
	c.Submit("last words")
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"last words"}, store.order)

	c.Submit("after close")
	assert.Equal(t, 1, store.writes())
}
