package controller

import (
	"context"
	"encoding/json"
	"time"

	"reflective-notes-be/internal/dto"
	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/internal/pkg/serverutils"
	"reflective-notes-be/internal/service"
	internalWS "reflective-notes-be/internal/websocket"
	"reflective-notes-be/pkg/annotate"
	"reflective-notes-be/pkg/editor"
	"reflective-notes-be/pkg/notesync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const closeFlushTimeout = 30 * time.Second

type IEditorController interface {
	RegisterRoutes(r fiber.Router)
	ServeWs(ctx *fiber.Ctx) error
}

type editorController struct {
	editorService service.IEditorService
	hub           *internalWS.Hub
	logger        logger.ILogger
}

func NewEditorController(editorService service.IEditorService, hub *internalWS.Hub, log logger.ILogger) IEditorController {
	return &editorController{
		editorService: editorService,
		hub:           hub,
		logger:        log,
	}
}

func (c *editorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/editor/v1")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Get("/ws", c.ServeWs)
}

// ServeWs upgrades to the editor channel. ?session= names the session to
// resume; a fresh key is issued when it is missing.
func (c *editorController) ServeWs(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	userID := serverutils.UserID(ctx)
	sessionKey := ctx.Query("session")
	if sessionKey == "" {
		sessionKey = uuid.NewString()
	}

	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("EDITOR", "Starting editor session", map[string]interface{}{
			"user_id":     userID,
			"session_key": sessionKey,
		})
		c.run(internalWS.NewClient(c.hub, conn, userID, sessionKey))
		c.logger.Info("EDITOR", "Editor session ended", map[string]interface{}{
			"user_id":     userID,
			"session_key": sessionKey,
		})
	})(ctx)
}

func (c *editorController) run(client *internalWS.Client) {
	session := c.open(client)
	client.OnFrame = func(raw []byte) {
		c.dispatch(session, client, raw)
	}

	internalWS.ServeWs(client)

	ctx, cancel := context.WithTimeout(context.Background(), closeFlushTimeout)
	defer cancel()
	if err := session.Close(ctx); err != nil {
		c.logger.Warn("EDITOR", "Final flush failed", map[string]interface{}{
			"error":       err.Error(),
			"session_key": client.SessionKey,
		})
	}
}

// open starts the session and queues the greeting frames.
func (c *editorController) open(client *internalWS.Client) *editor.Session {
	session := c.editorService.Open(context.Background(), client.SessionKey, client.UserID, service.EditorOutput{
		OnRender: func(v editor.View) { client.SendJSON(renderFrame(v)) },
		OnNotice: func(n editor.Notice) {
			client.SendJSON(dto.EditorNoticeFrame{Type: dto.FrameNotice, Level: n.Level, Message: n.Message})
		},
		OnSaved: func(o notesync.Output) {
			if o.Identity == nil {
				return
			}
			client.SendJSON(dto.EditorSavedFrame{Type: dto.FrameSaved, NoteId: o.Identity.NoteID, Created: o.Created})
		},
	})

	hello := dto.EditorSessionFrame{
		Type:       dto.FrameSession,
		SessionKey: client.SessionKey,
		Text:       session.Text(),
		Anonymous:  client.UserID == "",
	}
	if id := session.Identity(); id != nil {
		hello.NoteId = id.NoteID
	}
	client.SendJSON(hello)
	client.SendJSON(renderFrame(session.Render()))
	return session
}

// frameSink is where replies to client frames go.
type frameSink interface {
	SendJSON(v interface{}) bool
}

func (c *editorController) dispatch(session *editor.Session, out frameSink, raw []byte) {
	var frame dto.EditorClientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		out.SendJSON(dto.EditorNoticeFrame{Type: dto.FrameNotice, Level: editor.NoticeError, Message: "Malformed frame"})
		return
	}

	switch frame.Type {
	case dto.FrameInput:
		out.SendJSON(renderFrame(session.Input(frame.Text, frame.Key)))
	case dto.FramePointer:
		out.SendJSON(renderFrame(session.Pointer(annotate.PointerEvent{
			Target:  frame.Target,
			Segment: frame.Segment,
			X:       frame.X,
			Y:       frame.Y,
		})))
	case dto.FrameFlush:
		ctx, cancel := context.WithTimeout(context.Background(), closeFlushTimeout)
		defer cancel()
		if err := session.Flush(ctx); err != nil {
			c.logger.Warn("EDITOR", "Requested flush failed", map[string]interface{}{
				"error":       err.Error(),
				"session_key": session.SessionKey(),
			})
		}
	default:
		c.logger.Debug("EDITOR", "Ignoring unknown frame", map[string]interface{}{"type": frame.Type})
	}
}

func renderFrame(v editor.View) dto.EditorRenderFrame {
	return dto.EditorRenderFrame{Type: dto.FrameRender, Segments: v.Segments, Tooltip: v.Tooltip}
}
