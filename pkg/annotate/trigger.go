package annotate

import "strings"

const DefaultWindowSize = 15

// DefaultTerminators are the keys that ship the current window immediately.
var DefaultTerminators = []string{"Enter", "Backspace", "."}

// TriggerConfig controls when in-progress text is shipped for analysis.
type TriggerConfig struct {
	WindowSize  int
	Terminators []string
}

func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		WindowSize:  DefaultWindowSize,
		Terminators: DefaultTerminators,
	}
}

func (c TriggerConfig) window() int {
	if c.WindowSize <= 0 {
		return DefaultWindowSize
	}
	return c.WindowSize
}

func (c TriggerConfig) isTerminator(key string) bool {
	if key == "" {
		return false
	}
	for _, t := range c.Terminators {
		if t == key {
			return true
		}
	}
	return false
}

// TriggerState is what the trigger remembers between keystrokes.
type TriggerState struct {
	Text      string // text seen at the previous observation
	WordCount int    // word count of Text
	FiredAt   int    // word count the trigger last fired at, 0 once the count moves away
}

// ShouldTrigger decides whether the current text must be shipped for analysis.
//
// It fires when the word count is a positive multiple of the window size, or
// when lastKey is a terminator and at least one word exists. It never fires on
// unchanged text, never on blank text, and never twice while the word count
// stays at the value it last fired at.
func ShouldTrigger(cfg TriggerConfig, prev TriggerState, text, lastKey string) (Chunk, TriggerState, bool) {
	if text == prev.Text {
		return nil, prev, false
	}

	tokens := strings.Fields(text)
	next := TriggerState{
		Text:      text,
		WordCount: len(tokens),
		FiredAt:   prev.FiredAt,
	}
	if next.WordCount != prev.FiredAt {
		next.FiredAt = 0
	}

	if next.WordCount == 0 || next.FiredAt == next.WordCount {
		return nil, next, false
	}

	w := cfg.window()
	if next.WordCount%w != 0 && !cfg.isTerminator(lastKey) {
		return nil, next, false
	}

	start := 0
	if len(tokens) > w {
		start = len(tokens) - w
	}
	chunk := make(Chunk, len(tokens)-start)
	copy(chunk, tokens[start:])

	next.FiredAt = next.WordCount
	return chunk, next, true
}

// Trigger is a stateful wrapper around ShouldTrigger for a single session.
// It is not safe for concurrent use; the editing session serializes calls.
type Trigger struct {
	cfg   TriggerConfig
	state TriggerState
}

func NewTrigger(cfg TriggerConfig) *Trigger {
	return &Trigger{cfg: cfg}
}

// Observe feeds the latest text and the key that produced it.
func (t *Trigger) Observe(text, lastKey string) (Chunk, bool) {
	chunk, next, fired := ShouldTrigger(t.cfg, t.state, text, lastKey)
	t.state = next
	return chunk, fired
}

// Reset seeds the trigger with text restored from storage so it does not
// immediately fire on it.
func (t *Trigger) Reset(text string) {
	t.state = TriggerState{
		Text:      text,
		WordCount: len(strings.Fields(text)),
	}
	t.state.FiredAt = t.state.WordCount
}

func (t *Trigger) State() TriggerState {
	return t.state
}
