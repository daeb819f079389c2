package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"reflective-notes-be/pkg/annotate"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Analyzer ships one chunk to the remote analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, seq uint64, chunk annotate.Chunk) (annotate.AnalysisResult, error)
}

// Failure is returned for any analysis that did not produce a usable answer.
// It matches annotate.ErrNetworkFailure or annotate.ErrMalformedResponse via errors.Is.
type Failure struct {
	Reason string
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("analysis failed (status %d): %s", f.Status, f.Reason)
	}
	return fmt.Sprintf("analysis failed: %s", f.Reason)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// --- Wire format ---

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response *string `json:"response"`
	Error    string  `json:"error,omitempty"`
}

// HTTPClient talks to a single analysis endpoint over JSON.
type HTTPClient struct {
	URL    string
	Client *http.Client
}

// Ensure HTTPClient implements Analyzer
var _ Analyzer = &HTTPClient{}

func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		URL: url,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) Analyze(ctx context.Context, seq uint64, chunk annotate.Chunk) (annotate.AnalysisResult, error) {
	ctx, span := otel.Tracer("analysis").Start(ctx, "analysis.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("analysis.seq", int64(seq)),
		attribute.Int("analysis.words", len(chunk)),
	)

	raw, err := c.post(ctx, chunk.Text())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return annotate.AnalysisResult{}, err
	}

	return annotate.AnalysisResult{
		Seq:         seq,
		SourceChunk: chunk,
		RawResponse: raw,
	}, nil
}

func (c *HTTPClient) post(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", &Failure{Reason: "marshal request", Err: errors.Join(annotate.ErrNetworkFailure, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewBuffer(payload))
	if err != nil {
		return "", &Failure{Reason: "create request", Err: errors.Join(annotate.ErrNetworkFailure, err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", &Failure{Reason: err.Error(), Err: errors.Join(annotate.ErrNetworkFailure, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Failure{Reason: "read response", Status: resp.StatusCode, Err: errors.Join(annotate.ErrNetworkFailure, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := string(body)
		var errResp chatResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			reason = errResp.Error
		}
		return "", &Failure{Reason: reason, Status: resp.StatusCode, Err: annotate.ErrNetworkFailure}
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &Failure{Reason: "decode response", Status: resp.StatusCode, Err: errors.Join(annotate.ErrMalformedResponse, err)}
	}
	if out.Response == nil {
		return "", &Failure{Reason: "response field missing", Status: resp.StatusCode, Err: annotate.ErrMalformedResponse}
	}

	return *out.Response, nil
}

// AnalyzerFunc adapts a plain function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, seq uint64, chunk annotate.Chunk) (annotate.AnalysisResult, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, seq uint64, chunk annotate.Chunk) (annotate.AnalysisResult, error) {
	return f(ctx, seq, chunk)
}
