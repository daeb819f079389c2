package factory

import (
	"fmt"

	"reflective-notes-be/pkg/llm"
	"reflective-notes-be/pkg/llm/ollama"
	"reflective-notes-be/pkg/llm/openai"
)

const huggingFaceRouterURL = "https://router.huggingface.co/v1"

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai":
		return openai.NewProvider(apiKey, baseURL, modelName), nil
	case "huggingface":
		if baseURL == "" {
			baseURL = huggingFaceRouterURL
		}
		return openai.NewProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
