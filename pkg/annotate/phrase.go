package annotate

import (
	"regexp"
	"strings"
)

// FlaggedPhrase is a phrase the analyzer called out, quotes stripped and trimmed.
type FlaggedPhrase = string

// userMarkerPattern matches the analyzer's trailing marker, e.g. [User: 'sad', 'tired'].
var userMarkerPattern = regexp.MustCompile(`\[User:([^\]]*)\]`)

// ExtractPhrases parses the flagged phrases out of a raw analyzer response.
// A response without a marker yields an empty slice; that is not an error.
func ExtractPhrases(raw string) []FlaggedPhrase {
	phrases := make([]FlaggedPhrase, 0)

	match := userMarkerPattern.FindStringSubmatch(raw)
	if len(match) < 2 {
		return phrases
	}

	for _, piece := range strings.Split(match[1], ",") {
		p := strings.TrimSpace(piece)
		p = strings.Trim(p, `'"`)
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		phrases = append(phrases, p)
	}
	return phrases
}

// TooltipContent is the part of a raw response shown to the user: everything
// before the first bracket, which drops the [User: ...] marker.
func TooltipContent(raw string) string {
	if i := strings.IndexByte(raw, '['); i >= 0 {
		return raw[:i]
	}
	return raw
}
