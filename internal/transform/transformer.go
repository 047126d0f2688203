package transform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/services/llm"
	"scribe/internal/textutil"
)

// Completer is the subset of the LLM client used by the transformer.
type Completer interface {
	Do(ctx context.Context, req llm.Request) (llm.Completion, error)
	Model() string
}

const (
	rewriteTemperature = 0.7
	reviewTemperature  = 0.3
)

// Transformer runs the automated passes.
type Transformer struct {
	writer   Completer
	reviewer Completer
	logger   *slog.Logger
}

type reviewResponse struct {
	RevisedText string   `json:"revised_text"`
	Comments    []string `json:"comments"`
}

// New builds a Transformer over the given writer and reviewer clients.
func New(writer, reviewer Completer, logger *slog.Logger) *Transformer {
	if reviewer == nil {
		reviewer = writer
	}
	return &Transformer{
		writer:   writer,
		reviewer: reviewer,
		logger:   logging.NewComponentLogger(logger, "transform"),
	}
}

// NewFromConfig builds a Transformer backed by OpenRouter-compatible clients.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...llm.Option) (*Transformer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("transform: config is required")
	}
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	writer := llm.NewClient(clientConfig(cfg.WriterLLM()), withRetries(cfg.LLM.RetryAttempts, opts)...)
	reviewer := llm.NewClient(clientConfig(cfg.ReviewerLLM()), withRetries(cfg.LLM.RetryAttempts, opts)...)
	return New(writer, reviewer, logger), nil
}

func clientConfig(c config.LLMConfig) llm.Config {
	return llm.Config{
		APIKey:         c.APIKey,
		BaseURL:        c.BaseURL,
		Model:          c.Model,
		Referer:        c.Referer,
		Title:          c.Title,
		TimeoutSeconds: c.TimeoutSeconds,
		MaxTokens:      c.MaxTokens,
	}
}

func withRetries(attempts int, opts []llm.Option) []llm.Option {
	out := make([]llm.Option, 0, len(opts)+1)
	if attempts > 0 {
		out = append(out, llm.WithRetryMaxAttempts(attempts))
	}
	return append(out, opts...)
}

// Rewrite returns the writer model's rewrite of text.
func (t *Transformer) Rewrite(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("rewrite: input text is empty")
	}
	reply, err := t.writer.Do(ctx, llm.Request{System: rewriteSystemPrompt, User: text, Temperature: rewriteTemperature})
	if err != nil {
		return "", fmt.Errorf("rewrite: %w", err)
	}
	out := strings.TrimSpace(reply.Text)
	t.logger.Info("rewrite complete", logging.Args(append(completionAttrs(t.writer.Model(), reply),
		logging.Int("input_chars", len(text)),
		logging.Int("output_chars", len(out)),
		logging.Float64("similarity", textutil.Similarity(text, out)),
	)...)...)
	return out, nil
}

// Review returns the reviewer model's revised text.
func (t *Transformer) Review(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("review: input text is empty")
	}
	reply, err := t.reviewer.Do(ctx, llm.Request{System: reviewSystemPrompt, User: text, JSON: true, Temperature: reviewTemperature})
	if err != nil {
		return "", fmt.Errorf("review: %w", err)
	}
	var resp reviewResponse
	if err := llm.DecodeLLMJSON(reply.Text, &resp); err != nil {
		return "", fmt.Errorf("review: %w", err)
	}
	revised := strings.TrimSpace(resp.RevisedText)
	if revised == "" {
		return "", fmt.Errorf("review: response missing revised_text")
	}
	attrs := append(completionAttrs(t.reviewer.Model(), reply),
		logging.Int("comment_count", len(resp.Comments)),
		logging.Float64("similarity", textutil.Similarity(text, revised)),
	)
	for i, comment := range resp.Comments {
		if i == 5 {
			break
		}
		attrs = append(attrs, logging.String(fmt.Sprintf("comment_%d", i+1), strings.TrimSpace(comment)))
	}
	t.logger.Info("review complete", logging.Args(attrs...)...)
	return revised, nil
}

func completionAttrs(model string, c llm.Completion) []logging.Attr {
	return []logging.Attr{
		logging.String("model", model),
		logging.Int("attempts", c.Attempts),
		logging.Int("prompt_tokens", c.Usage.PromptTokens),
		logging.Int("completion_tokens", c.Usage.CompletionTokens),
	}
}
