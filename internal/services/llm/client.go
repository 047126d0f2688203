package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultHTTPTimeout = 120 * time.Second
	defaultTemperature = 0.7
)

// ErrTruncated marks a reply the provider cut off at the token limit. Such
// replies are never retried; raise max_tokens instead.
var ErrTruncated = errors.New("llm reply truncated")

// Config holds the connection settings for one model.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	// MaxTokens caps generated tokens per call; zero leaves it to the provider.
	MaxTokens int
}

// Request is one chat completion call.
type Request struct {
	System string
	User   string
	// JSON asks the provider for a json_object response.
	JSON bool
	// Temperature of zero uses the client default.
	Temperature float64
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Completion is a successful reply.
type Completion struct {
	Text         string
	FinishReason string
	Usage        Usage
	// Attempts counts requests sent, including retried ones.
	Attempts int
}

// Client talks to an OpenRouter-compatible chat completion endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      retryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts sets how many requests one call may send.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retry.attempts = attempts
	}
}

// WithRetryBackoff sets the first retry delay and the ceiling.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retry.base = baseDelay
		c.retry.max = maxDelay
	}
}

// WithSleeper replaces the timer used between retries.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.retry.sleeper = sleeper
	}
}

// NewClient constructs a client for cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Referer = strings.TrimSpace(cfg.Referer)
	cfg.Title = strings.TrimSpace(cfg.Title)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxTokens < 0 {
		cfg.MaxTokens = 0
	}

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		retry:      defaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Model reports the model the client sends requests to.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Do sends req, retrying transient failures.
func (c *Client) Do(ctx context.Context, req Request) (Completion, error) {
	op := "llm complete"
	if req.JSON {
		op = "llm complete json"
	}
	payload, err := c.buildPayload(op, req)
	if err != nil {
		return Completion{}, err
	}
	return c.doWithRetry(ctx, payload, op)
}

// Complete is Do for a free-text reply at the default temperature.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	out, err := c.Do(ctx, Request{System: systemPrompt, User: userPrompt})
	return out.Text, err
}

// CompleteJSON is Do for a JSON reply. The raw payload is returned undecoded.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	out, err := c.Do(ctx, Request{System: systemPrompt, User: userPrompt, JSON: true})
	return out.Text, err
}

// HealthCheck verifies the key and model with a tiny JSON round trip.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.CompleteJSON(ctx, "You must respond with JSON only.", `Respond with {"ok":true}`)
	if err != nil {
		return fmt.Errorf("llm health: %w", err)
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return fmt.Errorf("llm health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}

func (c *Client) buildPayload(op string, req Request) (chatCompletionRequest, error) {
	system := strings.TrimSpace(req.System)
	user := strings.TrimSpace(req.User)
	switch {
	case system == "":
		return chatCompletionRequest{}, fmt.Errorf("%s: system prompt required", op)
	case user == "":
		return chatCompletionRequest{}, fmt.Errorf("%s: user prompt required", op)
	case c.cfg.APIKey == "":
		return chatCompletionRequest{}, fmt.Errorf("%s: api key required", op)
	}
	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: req.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	if payload.Temperature <= 0 {
		payload.Temperature = defaultTemperature
	}
	if req.JSON {
		payload.ResponseFormat = map[string]string{"type": "json_object"}
	}
	return payload, nil
}
