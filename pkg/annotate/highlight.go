package annotate

import (
	"regexp"
	"sort"
	"strings"
)

// Segment is a contiguous run of the live text, either plain or flagged.
type Segment struct {
	Text    string `json:"text"`
	Flagged bool   `json:"flagged"`
}

// Composite partitions text against the phrase vocabulary.
//
// Matching is case-insensitive and phrases are matched literally. The returned
// segments are in left-to-right order and their texts concatenate back to
// exactly the input.
func Composite(text string, vocabulary []string) []Segment {
	if text == "" {
		return []Segment{}
	}

	terms := normalizeVocabulary(vocabulary)
	if len(terms) == 0 {
		return []Segment{{Text: text}}
	}

	pattern := compileVocabulary(terms)
	matches := pattern.FindAllStringIndex(text, -1)

	segments := make([]Segment, 0, 2*len(matches)+1)
	cursor := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start == end {
			continue
		}
		if start > cursor {
			segments = append(segments, Segment{Text: text[cursor:start]})
		}
		part := text[start:end]
		segments = append(segments, Segment{Text: part, Flagged: isVocabulary(part, terms)})
		cursor = end
	}
	if cursor < len(text) {
		segments = append(segments, Segment{Text: text[cursor:]})
	}
	return segments
}

// normalizeVocabulary drops blank entries and case-insensitive duplicates,
// keeping the first spelling seen.
func normalizeVocabulary(vocabulary []string) []string {
	seen := make(map[string]struct{}, len(vocabulary))
	terms := make([]string, 0, len(vocabulary))
	for _, v := range vocabulary {
		if strings.TrimSpace(v) == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		terms = append(terms, v)
	}
	return terms
}

// compileVocabulary builds one alternation. Longer phrases go first so that
// "great attitude" wins over "great" at the same position.
func compileVocabulary(terms []string) *regexp.Regexp {
	ordered := make([]string, len(terms))
	copy(ordered, terms)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	quoted := make([]string, len(ordered))
	for i, t := range ordered {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

func isVocabulary(part string, terms []string) bool {
	for _, t := range terms {
		if strings.EqualFold(part, t) {
			return true
		}
	}
	return false
}

// Joined concatenates segment texts in order.
func Joined(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}
