package service

import (
	"context"
	"time"

	"reflective-notes-be/internal/dto"
	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/pkg/analysis"
	"reflective-notes-be/pkg/annotate"
	"reflective-notes-be/pkg/editor"
	"reflective-notes-be/pkg/notesync"
)

// SessionStore is what an editing session persists to and resumes from.
type SessionStore interface {
	notesync.Store
	editor.NoteReader
}

// EditorOutput receives everything a session produces for its UI.
type EditorOutput struct {
	OnRender func(editor.View)
	OnNotice func(editor.Notice)
	OnSaved  func(notesync.Output)
}

type IEditorService interface {
	// Open starts an editing session. userID is empty for anonymous users.
	Open(ctx context.Context, sessionKey, userID string, out EditorOutput) *editor.Session
}

type editorService struct {
	analyzer   analysis.Analyzer
	store      SessionStore
	identities editor.IdentityStore
	publisher  IPublisherService // optional
	trigger    annotate.TriggerConfig
	debounce   time.Duration
	logger     logger.ILogger
}

func NewEditorService(
	analyzer analysis.Analyzer,
	store SessionStore,
	identities editor.IdentityStore,
	publisher IPublisherService,
	trigger annotate.TriggerConfig,
	debounce time.Duration,
	log logger.ILogger,
) IEditorService {
	return &editorService{
		analyzer:   analyzer,
		store:      store,
		identities: identities,
		publisher:  publisher,
		trigger:    trigger,
		debounce:   debounce,
		logger:     log,
	}
}

func (s *editorService) Open(ctx context.Context, sessionKey, userID string, out EditorOutput) *editor.Session {
	return editor.NewSession(ctx, editor.Config{
		SessionKey:   sessionKey,
		UserID:       userID,
		Trigger:      s.trigger,
		SyncDebounce: s.debounce,
	}, editor.Dependencies{
		Analyzer:   s.analyzer,
		Store:      s.store,
		Identities: s.identities,
		Reader:     s.store,
		Logger:     s.logger,
		OnRender:   out.OnRender,
		OnNotice:   out.OnNotice,
		OnPersisted: func(o notesync.Output) {
			if out.OnSaved != nil {
				out.OnSaved(o)
			}
			s.announce(sessionKey, o)
		},
	})
}

func (s *editorService) announce(sessionKey string, o notesync.Output) {
	if s.publisher == nil || o.Identity == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.publisher.PublishPersisted(ctx, dto.NotePersistedMessage{
		UserId:     o.Identity.UserID,
		NoteId:     o.Identity.NoteID,
		SessionKey: sessionKey,
		Created:    o.Created,
		LastEdited: o.LastEdited,
	})
	if err != nil {
		s.logger.Warn("EDITOR", "Failed to announce persisted note", map[string]interface{}{
			"error":   err.Error(),
			"note_id": o.Identity.NoteID,
		})
	}
}
