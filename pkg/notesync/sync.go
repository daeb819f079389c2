// Package notesync reconciles the live text of an editing session with a
// single persisted note.
package notesync

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Identity addresses one persisted note: users/{UserID}/history/{NoteID}.
type Identity struct {
	UserID string `json:"user_id"`
	NoteID string `json:"note_id"`
}

// PersistedNote is the durable projection of the live text.
type PersistedNote struct {
	Title      string
	Content    string
	CreatedOn  time.Time
	LastEdited time.Time
}

// Store is the slice of the document store the sync path needs.
type Store interface {
	// Create allocates a new note for userID and writes its first snapshot.
	// The returned id is assigned by the store.
	Create(ctx context.Context, userID string, note PersistedNote) (noteID string, err error)

	// Update overwrites Content and LastEdited of an existing note. Title and
	// CreatedOn are left as stored.
	Update(ctx context.Context, id Identity, note PersistedNote) error
}

// Input is everything one sync decision looks at.
type Input struct {
	UserID        string
	LiveText      string
	Identity      *Identity
	LastPersisted string
	LastEdited    time.Time // last successfully written timestamp, zero if none
	Now           time.Time
}

// Output carries the state after a sync. When Wrote is false it equals the input.
type Output struct {
	Identity      *Identity
	LastPersisted string
	LastEdited    time.Time
	Wrote         bool
	Created       bool
}

// Sync persists LiveText when it differs from what was last written.
//
// Blank text, text equal to LastPersisted and anonymous sessions are no-ops.
// Without an identity a new note is allocated; otherwise the existing one is
// overwritten. LastPersisted only advances after the store confirms the write,
// so a failed write is retried by the next edit.
func Sync(ctx context.Context, store Store, in Input) (Output, error) {
	unchanged := Output{
		Identity:      in.Identity,
		LastPersisted: in.LastPersisted,
		LastEdited:    in.LastEdited,
	}

	if strings.TrimSpace(in.LiveText) == "" || in.LiveText == in.LastPersisted {
		return unchanged, nil
	}
	if in.Identity == nil && in.UserID == "" {
		return unchanged, nil
	}

	now := in.Now
	if now.Before(in.LastEdited) {
		now = in.LastEdited
	}

	if in.Identity == nil {
		note := PersistedNote{
			Title:      DeriveTitle(in.LiveText),
			Content:    in.LiveText,
			CreatedOn:  now,
			LastEdited: now,
		}
		noteID, err := store.Create(ctx, in.UserID, note)
		if err != nil {
			return unchanged, fmt.Errorf("create note: %w", err)
		}
		return Output{
			Identity:      &Identity{UserID: in.UserID, NoteID: noteID},
			LastPersisted: in.LiveText,
			LastEdited:    now,
			Wrote:         true,
			Created:       true,
		}, nil
	}

	note := PersistedNote{
		Content:    in.LiveText,
		LastEdited: now,
	}
	if err := store.Update(ctx, *in.Identity, note); err != nil {
		return unchanged, fmt.Errorf("update note %s: %w", in.Identity.NoteID, err)
	}
	return Output{
		Identity:      in.Identity,
		LastPersisted: in.LiveText,
		LastEdited:    now,
		Wrote:         true,
	}, nil
}

const (
	maxTitleRunes = 60
	untitled      = "Untitled"
)

// DeriveTitle names a new note after the first non-blank line of its content.
func DeriveTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxTitleRunes {
			runes := []rune(line)
			line = strings.TrimSpace(string(runes[:maxTitleRunes])) + "…"
		}
		return line
	}
	return untitled
}
