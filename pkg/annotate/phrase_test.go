package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPhrases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []FlaggedPhrase
	}{
		{name: "mixed quotes and spacing", raw: `That sounds hard. [User: 'a', "b" , c]`, want: []FlaggedPhrase{"a", "b", "c"}},
		{name: "no marker", raw: "no marker here", want: []FlaggedPhrase{}},
		{name: "single phrase", raw: "great attitude [User: 'great attitude']", want: []FlaggedPhrase{"great attitude"}},
		{name: "tag is case sensitive", raw: "hmm [user: 'sad']", want: []FlaggedPhrase{}},
		{name: "empty pieces dropped", raw: "ok [User: 'tired', , '']", want: []FlaggedPhrase{"tired"}},
		{name: "only first marker", raw: "[User: 'one'] and [User: 'two']", want: []FlaggedPhrase{"one"}},
		{name: "empty response", raw: "", want: []FlaggedPhrase{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPhrases(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPhrases_IsPure(t *testing.T) {
	raw := `Why does it feel heavy? [User: "heavy", 'stuck']`
	first := ExtractPhrases(raw)
	second := ExtractPhrases(raw)
	assert.Equal(t, first, second)
	assert.Equal(t, []FlaggedPhrase{"heavy", "stuck"}, first)
}

func TestTooltipContent(t *testing.T) {
	assert.Equal(t, "great attitude ", TooltipContent("great attitude [User: 'great attitude']"))
	assert.Equal(t, "no marker", TooltipContent("no marker"))
	assert.Equal(t, "", TooltipContent("[User: 'x'] trailing"))
}
