package notesync

import (
	"context"
	"sync"
	"time"

	"reflective-notes-be/internal/pkg/logger"
)

const (
	DefaultDebounce = time.Second
	flushTimeout    = 30 * time.Second
)

// Options configures a Coordinator.
type Options struct {
	Debounce time.Duration
	Now      func() time.Time
	Logger   logger.ILogger

	// Seed state for a session resumed on an existing note.
	LastPersisted string
	LastEdited    time.Time

	// OnIdentity runs once when the store allocates the session's note.
	OnIdentity func(Identity)
	// OnPersisted runs after every confirmed write.
	OnPersisted func(Output)
	// OnError runs after every failed write.
	OnError func(error)
}

// Coordinator owns the persistence side of one editing session. Writes are
// serialized, bursts of edits are coalesced behind a debounce timer, and a
// monotonic generation counter keeps an older text from being written after a
// newer one.
type Coordinator struct {
	store Store
	opts  Options

	writeMu sync.Mutex // held for the duration of a store write

	mu            sync.Mutex
	userID        string
	identity      *Identity
	latest        string
	generation    uint64
	flushedGen    uint64
	lastPersisted string
	lastEdited    time.Time
	timer         *time.Timer
	closed        bool
}

func NewCoordinator(store Store, userID string, identity *Identity, opts Options) *Coordinator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	return &Coordinator{
		store:         store,
		opts:          opts,
		userID:        userID,
		identity:      identity,
		latest:        opts.LastPersisted,
		lastPersisted: opts.LastPersisted,
		lastEdited:    opts.LastEdited,
	}
}

// Submit records the latest live text and schedules a flush. It never blocks
// on the store.
func (c *Coordinator) Submit(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.latest = text
	c.generation++

	if c.opts.Debounce <= 0 {
		go c.flushInBackground()
		return
	}
	if c.timer == nil {
		c.timer = time.AfterFunc(c.opts.Debounce, c.flushInBackground)
		return
	}
	c.timer.Reset(c.opts.Debounce)
}

func (c *Coordinator) flushInBackground() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	_, _ = c.Flush(ctx)
}

// Flush writes the most recently submitted text now. A flush that finds
// nothing newer than the last confirmed write returns without touching the store.
func (c *Coordinator) Flush(ctx context.Context) (Output, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	gen := c.generation
	in := Input{
		UserID:        c.userID,
		LiveText:      c.latest,
		Identity:      c.identity,
		LastPersisted: c.lastPersisted,
		LastEdited:    c.lastEdited,
		Now:           c.opts.Now(),
	}
	stale := gen <= c.flushedGen
	c.mu.Unlock()

	if stale {
		return Output{Identity: in.Identity, LastPersisted: in.LastPersisted, LastEdited: in.LastEdited}, nil
	}

	out, err := Sync(ctx, c.store, in)
	if err != nil {
		c.opts.Logger.Error("SYNC", "Failed to persist note", map[string]interface{}{
			"error":      err.Error(),
			"user_id":    in.UserID,
			"generation": gen,
		})
		if c.opts.OnError != nil {
			c.opts.OnError(err)
		}
		return out, err
	}

	c.mu.Lock()
	c.flushedGen = gen
	c.identity = out.Identity
	c.lastPersisted = out.LastPersisted
	c.lastEdited = out.LastEdited
	c.mu.Unlock()

	if !out.Wrote {
		return out, nil
	}

	c.opts.Logger.Debug("SYNC", "Note persisted", map[string]interface{}{
		"note_id":    out.Identity.NoteID,
		"created":    out.Created,
		"generation": gen,
	})
	if out.Created && c.opts.OnIdentity != nil {
		c.opts.OnIdentity(*out.Identity)
	}
	if c.opts.OnPersisted != nil {
		c.opts.OnPersisted(out)
	}
	return out, nil
}

// Identity returns the session's note identity, nil until one is allocated.
func (c *Coordinator) Identity() *Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return nil
	}
	id := *c.identity
	return &id
}

// LastPersisted returns the content of the last confirmed write.
func (c *Coordinator) LastPersisted() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPersisted
}

// Close stops the debounce timer and writes whatever is still pending.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.mu.Unlock()

	_, err := c.Flush(ctx)
	return err
}
