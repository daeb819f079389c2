package ollama

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflective-notes-be/pkg/llm"
)

// Runs against a local Ollama when OLLAMA_BASE_URL is set.
func TestOllamaProvider_Live(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping live test: OLLAMA_BASE_URL not set")
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "gemma:2b"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	answer, err := NewOllamaProvider(baseURL, model).Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "Reply briefly. End with [User: 'the words you reacted to']."},
		{Role: llm.RoleUser, Content: "I finally finished the long report today"},
	}, llm.WithMaxTokens(80))
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	t.Logf("model answered: %s", answer)
}
