package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflective-notes-be/internal/dto"
	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/internal/pkg/serverutils"
	"reflective-notes-be/internal/repository/contract"
	"reflective-notes-be/internal/repository/memory"
	"reflective-notes-be/internal/service"
	"reflective-notes-be/pkg/analysis"
	"reflective-notes-be/pkg/annotate"
	"reflective-notes-be/pkg/editor"
	"reflective-notes-be/pkg/notesync"
)

const testSecret = "controller-test-secret"

type stubAnalyzerService struct {
	answer string
	err    error
}

func (s stubAnalyzerService) Reflect(ctx context.Context, message string) (string, error) {
	return s.answer, s.err
}

func newApp(register func(r fiber.Router)) *fiber.App {
	serverutils.SetJwtSecret(testSecret)
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNopLogger()))
	register(app.Group("/api"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, userID, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := serverutils.SignUserToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestAnalyzerController_Chat(t *testing.T) {
	tests := []struct {
		name       string
		svc        stubAnalyzerService
		body       string
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{
			name:       "answers",
			svc:        stubAnalyzerService{answer: "That sounds hard. [User: 'hard']"},
			body:       `{"message":"today was hard"}`,
			wantStatus: http.StatusOK,
			wantKey:    "response",
			wantValue:  "That sounds hard. [User: 'hard']",
		},
		{
			name:       "empty message",
			body:       `{"message":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantValue:  "Message is required",
		},
		{
			name:       "model failure",
			svc:        stubAnalyzerService{err: errors.New("upstream down")},
			body:       `{"message":"hello"}`,
			wantStatus: http.StatusInternalServerError,
			wantKey:    "error",
			wantValue:  "upstream down",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(NewAnalyzerController(tt.svc).RegisterRoutes)
			status, body := do(t, app, http.MethodPost, "/api/chat", "", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantValue, body[tt.wantKey])
		})
	}
}

func TestHistoryController(t *testing.T) {
	factory := memory.NewRepositoryFactory()
	store := service.NewNoteStore(factory)
	app := newApp(NewHistoryController(service.NewHistoryService(factory)).RegisterRoutes)

	now := time.Now()
	id, err := store.Create(context.Background(), "u1", notesync.PersistedNote{
		Title:      "Monday",
		Content:    "Monday\nI went for a long walk along the river before work",
		CreatedOn:  now,
		LastEdited: now,
	})
	require.NoError(t, err)

	status, _ := do(t, app, http.MethodGet, "/api/history/v1", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, app, http.MethodGet, "/api/history/v1", "u1", "")
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].(map[string]interface{})["id"])
	assert.Equal(t, float64(1), data["total"])

	status, _ = do(t, app, http.MethodGet, "/api/history/v1", "u2", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodGet, "/api/history/v1/not-a-uuid", "u1", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, app, http.MethodPut, "/api/history/v1/"+id, "u1", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "required", body["data"].(map[string]interface{})["title"])

	status, _ = do(t, app, http.MethodPut, "/api/history/v1/"+id, "u1", `{"title":"River walk"}`)
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, app, http.MethodGet, "/api/history/v1/"+id, "u1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "River walk", body["data"].(map[string]interface{})["title"])

	status, _ = do(t, app, http.MethodGet, "/api/history/v1/"+id, "u2", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodDelete, "/api/history/v1/"+id, "u1", "")
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodDelete, "/api/history/v1/"+id, "u1", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUserController_Profile(t *testing.T) {
	app := newApp(NewUserController(service.NewProfileService(memory.NewRepositoryFactory())).RegisterRoutes)

	status, body := do(t, app, http.MethodGet, "/api/profile/v1", "u1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", body["data"].(map[string]interface{})["id"])

	status, body = do(t, app, http.MethodPut, "/api/profile/v1", "u1", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "email", body["data"].(map[string]interface{})["email"])

	status, body = do(t, app, http.MethodPut, "/api/profile/v1", "u1", `{"username":"river","fields":{"theme":"dark"}}`)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "river", data["username"])
	assert.Equal(t, "dark", data["fields"].(map[string]interface{})["theme"])

	status, _ = do(t, app, http.MethodGet, "/api/profile/v1", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEditorController_RequiresUpgrade(t *testing.T) {
	app := newApp(NewEditorController(nil, nil, logger.NewNopLogger()).RegisterRoutes)

	status, _ := do(t, app, http.MethodGet, "/api/editor/v1/ws", "", "")
	assert.Equal(t, http.StatusUpgradeRequired, status)
}

type recordingSink struct {
	mu     sync.Mutex
	frames []map[string]interface{}
}

func (r *recordingSink) SendJSON(v interface{}) bool {
	raw, _ := json.Marshal(v)
	var frame map[string]interface{}
	_ = json.Unmarshal(raw, &frame)
	r.mu.Lock()
	r.frames = append(r.frames, frame)
	r.mu.Unlock()
	return true
}

func (r *recordingSink) last() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

func TestEditorController_Dispatch(t *testing.T) {
	analyzer := analysis.AnalyzerFunc(func(ctx context.Context, seq uint64, chunk annotate.Chunk) (annotate.AnalysisResult, error) {
		return annotate.AnalysisResult{Seq: seq, SourceChunk: chunk, RawResponse: "Nice. [User: 'great attitude']"}, nil
	})
	factory := memory.NewRepositoryFactory()
	editorSvc := service.NewEditorService(
		analyzer,
		service.NewNoteStore(factory),
		memory.NewIdentityStore(time.Hour),
		nil,
		annotate.DefaultTriggerConfig(),
		time.Hour,
		logger.NewNopLogger(),
	)
	c := &editorController{editorService: editorSvc, logger: logger.NewNopLogger()}

	rendered := make(chan struct{}, 1)
	session := editorSvc.Open(context.Background(), "key-1", "u1", service.EditorOutput{
		OnRender: func(_ editor.View) { rendered <- struct{}{} },
	})
	defer session.Close(context.Background())

	sink := &recordingSink{}
	text := "I think I handled the meeting with a great attitude even though it was hard"

	c.dispatch(session, sink, []byte(`{"type":"input","text":"`+text+`","key":"d"}`))
	frame := sink.last()
	assert.Equal(t, dto.FrameRender, frame["type"])

	select {
	case <-rendered:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis never rendered")
	}

	c.dispatch(session, sink, []byte(`{"type":"pointer","target":"segment","segment":1,"x":4,"y":8}`))
	tooltip := sink.last()["tooltip"].(map[string]interface{})
	assert.Equal(t, true, tooltip["visible"])
	assert.Equal(t, "Nice. ", tooltip["content"])

	c.dispatch(session, sink, []byte(`not json`))
	assert.Equal(t, dto.FrameNotice, sink.last()["type"])

	before := len(sink.frames)
	c.dispatch(session, sink, []byte(`{"type":"flush"}`))
	assert.Len(t, sink.frames, before)
	require.NotNil(t, session.Identity())

	saved, err := factory.NewUnitOfWork(context.Background()).HistoryRepository().ListByUser(context.Background(), "u1", contract.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, text, saved[0].Content)
}
