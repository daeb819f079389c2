// Package editor drives one editing session: it owns the live text, decides
// when to ship chunks for analysis, keeps the result log, recomputes the
// highlight overlay and hands persistence to a notesync.Coordinator.
package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/pkg/analysis"
	"reflective-notes-be/pkg/annotate"
	"reflective-notes-be/pkg/notesync"
)

// IdentityStore remembers which note a session key is editing so a reload
// resumes the same note.
type IdentityStore interface {
	Load(ctx context.Context, sessionKey string) (*notesync.Identity, error)
	Save(ctx context.Context, sessionKey string, id notesync.Identity) error
}

// NoteReader loads the stored snapshot of a resumed note.
type NoteReader interface {
	Get(ctx context.Context, id notesync.Identity) (*notesync.PersistedNote, error)
}

const (
	NoticeError = "error"
	NoticeInfo  = "info"
)

// Notice is a transient message for the inline notice area.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// View is what the UI layer renders: the overlay segments and the tooltip.
type View struct {
	Segments []annotate.Segment   `json:"segments"`
	Tooltip  annotate.TooltipState `json:"tooltip"`
}

type Config struct {
	SessionKey   string
	UserID       string // empty for anonymous sessions
	Trigger      annotate.TriggerConfig
	SyncDebounce time.Duration
}

type Dependencies struct {
	Analyzer   analysis.Analyzer
	Store      notesync.Store
	Identities IdentityStore // optional
	Reader     NoteReader    // optional
	Logger     logger.ILogger

	// OnRender receives a fresh view whenever a background analysis changes
	// the overlay. Views produced by Input and Pointer are returned directly.
	OnRender func(View)
	OnNotice func(Notice)
	// OnPersisted runs after every confirmed write of the session's note.
	OnPersisted func(notesync.Output)
}

type Session struct {
	cfg    Config
	deps   Dependencies
	logger logger.ILogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	results *annotate.ResultLog
	sync    *notesync.Coordinator

	mu       sync.Mutex
	text     string
	trigger  *annotate.Trigger
	segments []annotate.Segment
	tooltip  annotate.TooltipState
	seq      uint64
	closed   bool
}

// NewSession starts a session. Local session storage is read once here; a
// stored identity that belongs to another user is ignored. Analyses inherit
// ctx values but not its cancellation; Close ends them.
func NewSession(ctx context.Context, cfg Config, deps Dependencies) *Session {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if cfg.Trigger.WindowSize == 0 && cfg.Trigger.Terminators == nil {
		cfg.Trigger = annotate.DefaultTriggerConfig()
	}

	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Session{
		cfg:     cfg,
		deps:    deps,
		logger:  deps.Logger,
		ctx:     sessCtx,
		cancel:  cancel,
		results: annotate.NewResultLog(),
		trigger: annotate.NewTrigger(cfg.Trigger),
	}

	identity, restored := s.restore(ctx)

	s.sync = notesync.NewCoordinator(deps.Store, cfg.UserID, identity, notesync.Options{
		Debounce:      cfg.SyncDebounce,
		Logger:        deps.Logger,
		LastPersisted: restored.Content,
		LastEdited:    restored.LastEdited,
		OnIdentity:    s.rememberIdentity,
		OnPersisted:   deps.OnPersisted,
		OnError: func(err error) {
			s.notify(Notice{Level: NoticeError, Message: "Your note could not be saved. It will be retried on your next edit."})
		},
	})

	if restored.Content != "" {
		s.text = restored.Content
		s.trigger.Reset(restored.Content)
	}
	s.segments = annotate.Composite(s.text, nil)
	return s
}

func (s *Session) restore(ctx context.Context) (*notesync.Identity, notesync.PersistedNote) {
	if s.deps.Identities == nil || s.cfg.SessionKey == "" {
		return nil, notesync.PersistedNote{}
	}

	identity, err := s.deps.Identities.Load(ctx, s.cfg.SessionKey)
	if err != nil {
		s.logger.Warn("EDITOR", "Failed to read session identity", map[string]interface{}{
			"error":       err.Error(),
			"session_key": s.cfg.SessionKey,
		})
		return nil, notesync.PersistedNote{}
	}
	if identity == nil {
		return nil, notesync.PersistedNote{}
	}
	if identity.UserID != s.cfg.UserID {
		s.logger.Info("EDITOR", "Ignoring session identity of another user", map[string]interface{}{
			"session_key": s.cfg.SessionKey,
		})
		return nil, notesync.PersistedNote{}
	}

	if s.deps.Reader == nil {
		return identity, notesync.PersistedNote{}
	}
	note, err := s.deps.Reader.Get(ctx, *identity)
	if err != nil || note == nil {
		s.logger.Warn("EDITOR", "Stored note not readable, starting a new one", map[string]interface{}{
			"note_id": identity.NoteID,
			"error":   errString(err),
		})
		return nil, notesync.PersistedNote{}
	}
	return identity, *note
}

func (s *Session) rememberIdentity(id notesync.Identity) {
	if s.deps.Identities == nil || s.cfg.SessionKey == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.deps.Identities.Save(ctx, s.cfg.SessionKey, id); err != nil {
		s.logger.Warn("EDITOR", "Failed to remember session identity", map[string]interface{}{
			"error":   err.Error(),
			"note_id": id.NoteID,
		})
	}
}

// Input applies one text mutation. lastKey is the key that produced it
// ("Enter", "Backspace", "." or any other key name); it may be empty.
func (s *Session) Input(text, lastKey string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.viewLocked()
	}

	changed := text != s.text
	s.text = text

	if chunk, fired := s.trigger.Observe(text, lastKey); fired {
		s.seq++
		s.dispatch(s.seq, chunk)
	}
	if changed {
		s.sync.Submit(text)
	}

	s.segments = annotate.Composite(s.text, s.results.Vocabulary())
	return s.viewLocked()
}

// dispatch runs one analysis in the background. Results land in the log in
// completion order; failures leave the vocabulary untouched.
func (s *Session) dispatch(seq uint64, chunk annotate.Chunk) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		res, err := s.deps.Analyzer.Analyze(s.ctx, seq, chunk)
		if err != nil {
			if errors.Is(s.ctx.Err(), context.Canceled) {
				return
			}
			if errors.Is(err, annotate.ErrMalformedResponse) {
				// An unreadable answer flags nothing.
				s.logger.Warn("ANALYSIS", "Malformed analyzer response", map[string]interface{}{
					"error": err.Error(),
					"seq":   seq,
				})
				s.results.Append(annotate.AnalysisResult{Seq: seq, SourceChunk: chunk})
				return
			}
			s.logger.Error("ANALYSIS", "Chunk analysis failed", map[string]interface{}{
				"error": err.Error(),
				"seq":   seq,
				"words": len(chunk),
			})
			s.notify(Notice{Level: NoticeError, Message: "Reflections are unavailable right now."})
			return
		}

		s.results.Append(res)
		s.logger.Debug("ANALYSIS", "Chunk analyzed", map[string]interface{}{
			"seq":     seq,
			"phrases": len(res.Phrases()),
		})

		if s.deps.OnRender != nil {
			s.deps.OnRender(s.Render())
		}
	}()
}

// Render recomputes the overlay for the current text.
func (s *Session) Render() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = annotate.Composite(s.text, s.results.Vocabulary())
	return s.viewLocked()
}

// Pointer applies a pointer interaction. A target that names a segment which
// is not flagged counts as a click outside.
func (s *Session) Pointer(ev annotate.PointerEvent) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	content := ""
	if ev.Target == annotate.TargetFlagged {
		if ev.Segment < 0 || ev.Segment >= len(s.segments) || !s.segments[ev.Segment].Flagged {
			ev.Target = annotate.TargetOutside
		} else if res, ok := s.results.Resolve(s.segments[ev.Segment].Text); ok {
			content = annotate.TooltipContent(res.RawResponse)
		}
	}

	s.tooltip = annotate.NextTooltip(s.tooltip, ev, content)
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	segments := make([]annotate.Segment, len(s.segments))
	copy(segments, s.segments)
	return View{Segments: segments, Tooltip: s.tooltip}
}

func (s *Session) notify(n Notice) {
	if s.deps.OnNotice != nil {
		s.deps.OnNotice(n)
	}
}

func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Vocabulary is the active highlight vocabulary.
func (s *Session) Vocabulary() []string {
	return s.results.Vocabulary()
}

// Results returns the result log in arrival order.
func (s *Session) Results() []annotate.AnalysisResult {
	return s.results.Snapshot()
}

// Identity is the note this session writes to, nil until allocated.
func (s *Session) Identity() *notesync.Identity {
	return s.sync.Identity()
}

func (s *Session) SessionKey() string {
	return s.cfg.SessionKey
}

// Flush persists the current text immediately instead of waiting for the debounce.
func (s *Session) Flush(ctx context.Context) error {
	_, err := s.sync.Flush(ctx)
	return err
}

// Wait blocks until every dispatched analysis has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels outstanding analyses and writes any pending text.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return s.sync.Close(ctx)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
