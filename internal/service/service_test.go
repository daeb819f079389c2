package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflective-notes-be/internal/dto"
	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/internal/pkg/serverutils"
	"reflective-notes-be/internal/repository/memory"
	"reflective-notes-be/pkg/annotate"
	"reflective-notes-be/pkg/events"
	"reflective-notes-be/pkg/llm"
	"reflective-notes-be/pkg/notesync"
)

type fakeProvider struct {
	mu      sync.Mutex
	history []llm.Message
	answer  string
	err     error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = history
	return f.answer, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

type recordingEvents struct {
	ch chan events.Event
}

func (r *recordingEvents) Publish(ctx context.Context, event events.Event) error {
	r.ch <- event
	return nil
}

type recordingNotifier struct {
	ch chan []byte
}

func (r *recordingNotifier) SendToUser(userID string, payload []byte) {
	r.ch <- payload
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "short", content: "Dear diary", want: "Dear diary"},
		{name: "exactly forty", content: strings.Repeat("a", 40), want: strings.Repeat("a", 40)},
		{name: "long", content: strings.Repeat("b", 41), want: strings.Repeat("b", 40) + "..."},
		{name: "runes", content: strings.Repeat("é", 45), want: strings.Repeat("é", 40) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.content))
		})
	}
}

func TestNoteStoreAndHistoryService(t *testing.T) {
	factory := memory.NewRepositoryFactory()
	store := NewNoteStore(factory)
	history := NewHistoryService(factory)
	ctx := context.Background()
	t0 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	noteID, err := store.Create(ctx, "u1", notesync.PersistedNote{
		Title: "Morning", Content: "Morning pages and a long line of thought that keeps going", CreatedOn: t0, LastEdited: t0,
	})
	require.NoError(t, err)
	id := notesync.Identity{UserID: "u1", NoteID: noteID}

	user, err := factory.NewUnitOfWork(ctx).UserRepository().FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, user, "creating a note creates the account record")

	require.NoError(t, store.Update(ctx, id, notesync.PersistedNote{Content: "Morning pages, revised", LastEdited: t0.Add(time.Minute)}))
	err = store.Update(ctx, id, notesync.PersistedNote{Content: "older", LastEdited: t0})
	assert.True(t, errors.Is(err, annotate.ErrPersistenceConflict))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Morning pages, revised", got.Content)
	assert.Equal(t, "Morning", got.Title)

	_, err = store.Get(ctx, notesync.Identity{UserID: "u2", NoteID: noteID})
	assert.Error(t, err)

	list, err := history.List(ctx, "u1", 0, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, "Morning pages, revised", list.Items[0].Preview)

	noteUUID := uuid.MustParse(noteID)
	require.NoError(t, history.Rename(ctx, "u1", &dto.RenameHistoryRequest{Id: noteUUID, Title: "  Renamed  "}))
	shown, err := history.Show(ctx, "u1", noteUUID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", shown.Title)

	var appErr *serverutils.AppError
	_, err = history.Show(ctx, "u2", noteUUID)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Status)

	err = history.Rename(ctx, "u1", &dto.RenameHistoryRequest{Id: noteUUID, Title: "   "})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.Status)

	require.NoError(t, history.Delete(ctx, "u1", noteUUID))
	err = history.Delete(ctx, "u1", noteUUID)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Status)
}

func TestProfileService_PartialUpdate(t *testing.T) {
	svc := NewProfileService(memory.NewRepositoryFactory())
	ctx := context.Background()

	profile, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.Id)
	assert.Empty(t, profile.Username)

	username := "ada"
	bio := "writes every morning"
	_, err = svc.UpdateProfile(ctx, "u1", &dto.UpdateProfileRequest{
		Username: &username,
		Bio:      &bio,
		Fields:   map[string]interface{}{"theme": "dark", "font": "serif"},
	})
	require.NoError(t, err)

	email := "ada@example.com"
	profile, err = svc.UpdateProfile(ctx, "u1", &dto.UpdateProfileRequest{
		Email:  &email,
		Fields: map[string]interface{}{"font": nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", profile.Username)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "writes every morning", profile.Bio)
	assert.Equal(t, map[string]interface{}{"theme": "dark"}, profile.Fields)
}

func TestAnalyzerService_Reflect(t *testing.T) {
	provider := &fakeProvider{answer: "That sounds heavy. [User: 'tired']"}
	svc := NewAnalyzerService(provider, "", 0, logger.NewNopLogger())

	out, err := svc.Reflect(context.Background(), "I am so tired today")
	require.NoError(t, err)
	assert.Equal(t, "That sounds heavy. [User: 'tired']", out)

	require.Len(t, provider.history, 2)
	assert.Equal(t, llm.RoleSystem, provider.history[0].Role)
	assert.Equal(t, ReflectiveListenerPrompt, provider.history[0].Content)
	assert.Equal(t, "I am so tired today", provider.history[1].Content)

	custom := NewAnalyzerService(provider, "Be brief.", 0, logger.NewNopLogger())
	_, err = custom.Reflect(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "Be brief.", provider.history[0].Content)
}

func TestLocalAnalyzer(t *testing.T) {
	provider := &fakeProvider{answer: "ok [User: 'calm']"}
	analyzer := NewLocalAnalyzer(NewAnalyzerService(provider, "", 0, logger.NewNopLogger()))

	res, err := analyzer.Analyze(context.Background(), 7, annotate.Chunk{"I", "feel", "calm"})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), res.Seq)
	assert.Equal(t, []string{"calm"}, res.Phrases())
	assert.Equal(t, "I feel calm", provider.history[1].Content)

	provider.err = errors.New("rate limited")
	_, err = analyzer.Analyze(context.Background(), 8, annotate.Chunk{"x"})
	assert.True(t, errors.Is(err, annotate.ErrNetworkFailure))
}

func TestPersistedNoteFanOut(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	evts := &recordingEvents{ch: make(chan events.Event, 4)}
	notifier := &recordingNotifier{ch: make(chan []byte, 4)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer := NewConsumerService(pubSub, NotePersistedTopic, evts, notifier, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	factory := memory.NewRepositoryFactory()
	editorSvc := NewEditorService(
		NewLocalAnalyzer(NewAnalyzerService(&fakeProvider{answer: "hm"}, "", 0, logger.NewNopLogger())),
		NewNoteStore(factory),
		memory.NewIdentityStore(time.Hour),
		NewPublisherService(NotePersistedTopic, pubSub),
		annotate.DefaultTriggerConfig(),
		time.Hour,
		logger.NewNopLogger(),
	)

	saved := make(chan notesync.Output, 4)
	session := editorSvc.Open(ctx, "tab-1", "u1", EditorOutput{
		OnSaved: func(o notesync.Output) { saved <- o },
	})
	session.Input("First entry", "y")
	require.NoError(t, session.Flush(ctx))

	out := <-saved
	require.NotNil(t, out.Identity)
	assert.True(t, out.Created)

	select {
	case evt := <-evts.ch:
		assert.Equal(t, events.TypeNoteCreated, evt.EventType())
		assert.Equal(t, out.Identity.NoteID, evt.Payload()["note_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("no NATS event")
	}

	select {
	case raw := <-notifier.ch:
		var frame dto.EditorHistoryChangedFrame
		require.NoError(t, json.Unmarshal(raw, &frame))
		assert.Equal(t, dto.FrameHistoryChanged, frame.Type)
		assert.Equal(t, "tab-1", frame.SessionKey)
	case <-time.After(2 * time.Second):
		t.Fatal("no hub notice")
	}

	session.Input("First entry, continued", "d")
	require.NoError(t, session.Close(ctx))

	select {
	case evt := <-evts.ch:
		assert.Equal(t, events.TypeNoteSynced, evt.EventType())
	case <-time.After(2 * time.Second):
		t.Fatal("no sync event")
	}
}
