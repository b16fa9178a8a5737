// Package llm provides a rate-limited, retrying client for OpenAI-compatible
// embedding and chat-completion APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the default OpenAI-compatible API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultEmbeddingModel is the default embedding model.
	DefaultEmbeddingModel = "text-embedding-3-small"

	// DefaultCompletionModel is the default chat-completion model.
	DefaultCompletionModel = "gpt-4o-mini"

	// DefaultRequestTimeout is the wall-clock budget per request attempt.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultRequestsPerSecond caps outbound request rate. Providers
	// throttle aggressively; admission control keeps most 429s from
	// happening at all.
	DefaultRequestsPerSecond = 5.0

	// apiPathEmbeddings is the embeddings endpoint path.
	apiPathEmbeddings = "/embeddings"

	// apiPathChatCompletions is the chat completions endpoint path.
	apiPathChatCompletions = "/chat/completions"

	// maxErrorBodyBytes bounds how much of an error response body is
	// carried into error messages.
	maxErrorBodyBytes = 512
)

// Embedder generates embedding vectors for batches of texts.
type Embedder interface {
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates a single completion for a system+user prompt pair.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest describes one chat-completion call.
type CompletionRequest struct {
	System           string
	User             string
	MaxTokens        int
	Temperature      float32
	PresencePenalty  float32
	FrequencyPenalty float32
}

// Client is a rate-limited HTTP client for OpenAI-compatible model APIs.
// Every call is wrapped in the retry policy: rate-limited responses back
// off exponentially, other failures retry on a fixed delay, and a hard
// per-request timeout aborts in-flight calls.
type Client struct {
	baseURL         string
	apiKey          string
	embeddingModel  string
	completionModel string
	timeout         time.Duration
	httpClient      *http.Client
	limiter         *rate.Limiter
	policy          retryPolicy
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom API base URL (for proxies and testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) ClientOption {
	return func(c *Client) {
		c.embeddingModel = model
	}
}

// WithCompletionModel sets the chat-completion model.
func WithCompletionModel(model string) ClientOption {
	return func(c *Client) {
		c.completionModel = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRequestTimeout sets the wall-clock budget per request attempt.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRequestsPerSecond sets the outbound request rate limit.
func WithRequestsPerSecond(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryDelays overrides the retry backoff timings (for testing).
func WithRetryDelays(backoffBase, transientDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.policy.backoffBase = backoffBase
		c.policy.transientDelay = transientDelay
	}
}

// NewClient creates a model API client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:         DefaultBaseURL,
		apiKey:          apiKey,
		embeddingModel:  DefaultEmbeddingModel,
		completionModel: DefaultCompletionModel,
		timeout:         DefaultRequestTimeout,
		httpClient:      &http.Client{},
		limiter:         rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		policy:          defaultRetryPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// EmbeddingModel returns the configured embedding model name.
func (c *Client) EmbeddingModel() string {
	return c.embeddingModel
}

// EmbedBatch generates one embedding vector per input text.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := embeddingRequest{
		Model: c.embeddingModel,
		Input: texts,
	}

	var result embeddingResponse
	err := c.policy.do(ctx, func(ctx context.Context) error {
		return c.post(ctx, apiPathEmbeddings, reqBody, &result)
	})
	if err != nil {
		return nil, err
	}

	if len(result.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(result.Data), len(texts))
	}

	vectors := make([][]float32, len(result.Data))
	for _, d := range result.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index out of range: %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}

// Complete generates a single chat completion.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	reqBody := completionRequest{
		Model: c.completionModel,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		PresencePenalty:  req.PresencePenalty,
		FrequencyPenalty: req.FrequencyPenalty,
	}

	var result completionResponse
	err := c.policy.do(ctx, func(ctx context.Context) error {
		return c.post(ctx, apiPathChatCompletions, reqBody, &result)
	})
	if err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// post performs one POST attempt against the API, decoding a successful
// response into out and classifying failures for the retry policy.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// checkHTTPErrors returns a classified error if the response indicates a
// problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status 429", ErrRateLimited)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    readErrorBody(resp.Body),
	}
}

// readErrorBody reads a bounded excerpt of an error response body.
func readErrorBody(body io.Reader) string {
	excerpt, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return string(bytes.TrimSpace(excerpt))
}

// embeddingRequest is the request body for the embeddings API.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the response from the embeddings API.
type embeddingResponse struct {
	Data []embeddingData `json:"data"`
}

// embeddingData is a single embedding in an embeddings response.
type embeddingData struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// completionRequest is the request body for the chat completions API.
type completionRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	Temperature      float32       `json:"temperature,omitempty"`
	PresencePenalty  float32       `json:"presence_penalty,omitempty"`
	FrequencyPenalty float32       `json:"frequency_penalty,omitempty"`
}

// chatMessage is one message in a chat completion request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionResponse is the response from the chat completions API.
type completionResponse struct {
	Choices []completionChoice `json:"choices"`
}

// completionChoice is one choice in a chat completion response.
type completionChoice struct {
	Message chatMessage `json:"message"`
}
