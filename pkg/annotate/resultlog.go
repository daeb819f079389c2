package annotate

import (
	"strings"
	"sync"
)

// Chunk is an immutable window of whitespace-delimited tokens taken from the
// live text at the moment a trigger fired.
type Chunk []string

// Text joins the chunk tokens with single spaces.
func (c Chunk) Text() string {
	return strings.Join(c, " ")
}

// AnalysisResult is one successful analyzer answer together with the chunk
// that was sent for it.
type AnalysisResult struct {
	Seq         uint64 // dispatch token of the chunk, monotonic per session
	SourceChunk Chunk
	RawResponse string
}

// Phrases extracts the flagged phrases carried by this result.
func (r AnalysisResult) Phrases() []FlaggedPhrase {
	return ExtractPhrases(r.RawResponse)
}

// ResultLog is the append-only, arrival-ordered record of analysis results for
// one editing session. Entries are never reordered or removed, so a stale
// tooltip always resolves to the response that produced its phrase.
type ResultLog struct {
	mu      sync.RWMutex
	entries []AnalysisResult
}

func NewResultLog() *ResultLog {
	return &ResultLog{}
}

// Append records a result at the end of the log.
func (l *ResultLog) Append(r AnalysisResult) {
	l.mu.Lock()
	l.entries = append(l.entries, r)
	l.mu.Unlock()
}

func (l *ResultLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Snapshot returns a copy of the entries in arrival order.
func (l *ResultLog) Snapshot() []AnalysisResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]AnalysisResult, len(l.entries))
	copy(out, l.entries)
	return out
}

// Vocabulary returns every phrase flagged by every result, in log order.
// Duplicates are kept; Composite de-duplicates.
func (l *ResultLog) Vocabulary() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var vocab []string
	for _, e := range l.entries {
		vocab = append(vocab, e.Phrases()...)
	}
	return vocab
}

// Resolve finds the result a flagged segment came from: the most recent entry
// whose source chunk contains the segment text, compared case-insensitively.
func (l *ResultLog) Resolve(segment string) (AnalysisResult, bool) {
	needle := strings.ToLower(segment)
	if strings.TrimSpace(needle) == "" {
		return AnalysisResult{}, false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := len(l.entries) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(l.entries[i].SourceChunk.Text()), needle) {
			return l.entries[i], true
		}
	}
	return AnalysisResult{}, false
}
