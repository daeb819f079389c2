package dto

import "reflective-notes-be/pkg/annotate"

const (
	FrameInput   = "input"
	FramePointer = "pointer"
	FrameFlush   = "flush"

	FrameSession = "session"
	FrameRender  = "render"
	FrameNotice  = "notice"
	FrameSaved   = "saved"

	FrameHistoryChanged = "history_changed"
)

// EditorClientFrame is any frame the editor UI sends.
type EditorClientFrame struct {
	Type    string                 `json:"type"`
	Text    string                 `json:"text,omitempty"`
	Key     string                 `json:"key,omitempty"`
	Target  annotate.PointerTarget `json:"target,omitempty"`
	Segment int                    `json:"segment,omitempty"`
	X       float64                `json:"x,omitempty"`
	Y       float64                `json:"y,omitempty"`
}

type EditorSessionFrame struct {
	Type       string `json:"type"`
	SessionKey string `json:"session_key"`
	Text       string `json:"text"`
	NoteId     string `json:"note_id,omitempty"`
	Anonymous  bool   `json:"anonymous"`
}

type EditorRenderFrame struct {
	Type     string                `json:"type"`
	Segments []annotate.Segment    `json:"segments"`
	Tooltip  annotate.TooltipState `json:"tooltip"`
}

type EditorNoticeFrame struct {
	Type    string `json:"type"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type EditorSavedFrame struct {
	Type    string `json:"type"`
	NoteId  string `json:"note_id"`
	Created bool   `json:"created"`
}

// EditorHistoryChangedFrame tells a user's devices that a note changed.
// SessionKey names the session that wrote it.
type EditorHistoryChangedFrame struct {
	Type       string `json:"type"`
	NoteId     string `json:"note_id"`
	SessionKey string `json:"session_key"`
}
