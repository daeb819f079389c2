package service

import (
	"context"
	"fmt"
	"strings"

	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/pkg/analysis"
	"reflective-notes-be/pkg/annotate"
	"reflective-notes-be/pkg/llm"
)

// ReflectiveListenerPrompt makes the model answer as a reflective listener
// and append the user words it responded to as [User: '...'].
const ReflectiveListenerPrompt = "You are a listener who helps users explore their thoughts and feelings. " +
	"Do not respond in the first person perspective. Respond with reflective soft encouragement, " +
	"open-ended questions, and helpful suggestions, allowing users to feel heard and understood. " +
	"You prioritize understanding the user's emotional state, while gently attempting to guide the " +
	"user's thoughts with empathetic curiosity. Keep responses short but supportive and use previous " +
	"things said by the user to think of what to say next. Use different phrases. At the end of your " +
	"response, append the specific phrase (or consecutive words) that the user said that you used to " +
	"generate your response. Format this appended text as follows: [User: 'specific words']. For " +
	"example, if the user says 'I feel sad', you would append [User: 'sad']."

type IAnalyzerService interface {
	// Reflect answers one chunk of the user's writing.
	Reflect(ctx context.Context, message string) (string, error)
}

type analyzerService struct {
	provider     llm.LLMProvider
	systemPrompt string
	maxTokens    int
	logger       logger.ILogger
}

func NewAnalyzerService(provider llm.LLMProvider, systemPrompt string, maxTokens int, log logger.ILogger) IAnalyzerService {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = ReflectiveListenerPrompt
	}
	return &analyzerService{
		provider:     provider,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
		logger:       log,
	}
}

func (s *analyzerService) Reflect(ctx context.Context, message string) (string, error) {
	var opts []llm.Option
	if s.maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(s.maxTokens))
	}

	answer, err := s.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: s.systemPrompt},
		{Role: llm.RoleUser, Content: message},
	}, opts...)
	if err != nil {
		s.logger.Error("ANALYZER", "Model call failed", map[string]interface{}{
			"error":  err.Error(),
			"length": len(message),
		})
		return "", fmt.Errorf("reflect: %w", err)
	}

	s.logger.Debug("ANALYZER", "Reflection generated", map[string]interface{}{
		"length": len(answer),
	})
	return answer, nil
}

// NewLocalAnalyzer serves editing sessions from the analyzer service in
// process, skipping the HTTP hop. Failures are reported like an endpoint
// answering 500.
func NewLocalAnalyzer(svc IAnalyzerService) analysis.Analyzer {
	return analysis.AnalyzerFunc(func(ctx context.Context, seq uint64, chunk annotate.Chunk) (annotate.AnalysisResult, error) {
		raw, err := svc.Reflect(ctx, chunk.Text())
		if err != nil {
			return annotate.AnalysisResult{}, &analysis.Failure{
				Reason: err.Error(),
				Status: 500,
				Err:    fmt.Errorf("%w: %v", annotate.ErrNetworkFailure, err),
			}
		}
		return annotate.AnalysisResult{Seq: seq, SourceChunk: chunk, RawResponse: raw}, nil
	})
}
