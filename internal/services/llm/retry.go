package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// retryPolicy decides whether and how long to wait before another attempt.
type retryPolicy struct {
	attempts int
	base     time.Duration
	max      time.Duration
	sleeper  func(time.Duration)
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{attempts: 3, base: time.Second, max: 10 * time.Second}
}

func (c *Client) doWithRetry(ctx context.Context, payload chatCompletionRequest, op string) (Completion, error) {
	attempts := max(c.retry.attempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := c.attempt(ctx, payload, op)
		if err == nil {
			out.Attempts = attempt
			return out, nil
		}
		lastErr = err

		delay, again := c.retry.next(ctx, err, attempt, attempts)
		if !again {
			if attempt == 1 {
				return Completion{}, err
			}
			return Completion{}, fmt.Errorf("%s: failed after %d attempts: %w", op, attempt, err)
		}
		if err := c.retry.wait(ctx, delay); err != nil {
			return Completion{}, err
		}
	}
	return Completion{}, fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
}

// attempt sends one request and turns an unusable reply into an error.
func (c *Client) attempt(ctx context.Context, payload chatCompletionRequest, op string) (Completion, error) {
	resp, body, err := c.send(ctx, payload)
	if err != nil {
		return Completion{}, err
	}
	text, finish, refusal := firstChoice(resp)
	if finish == "length" {
		return Completion{}, fmt.Errorf("%s: %w after %d completion tokens", op, ErrTruncated, resp.Usage.CompletionTokens)
	}
	if text == "" {
		if len(resp.Choices) == 0 {
			return Completion{}, fmt.Errorf("%s: empty choices", op)
		}
		return Completion{}, &emptyContentError{Op: op, FinishReason: finish, Refusal: refusal, Snippet: summarizePayloadSnippet(string(body))}
	}
	return Completion{Text: text, FinishReason: finish, Usage: resp.Usage}, nil
}

func (p retryPolicy) next(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTruncated) {
		return 0, false
	}

	var emptyErr *emptyContentError
	if errors.As(err, &emptyErr) {
		return p.backoff(attempt), true
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if !statusErr.retryable() {
			return 0, false
		}
		if statusErr.RetryAfter > 0 {
			return p.clamp(statusErr.RetryAfter), true
		}
		return p.backoff(attempt), true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return p.backoff(attempt), true
	}
	return 0, false
}

// backoff doubles from base for each prior attempt, capped at max.
func (p retryPolicy) backoff(attempt int) time.Duration {
	if p.base <= 0 {
		return 0
	}
	delay := p.base
	for i := 1; i < attempt && (p.max <= 0 || delay < p.max); i++ {
		delay *= 2
	}
	return p.clamp(delay)
}

func (p retryPolicy) clamp(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if p.max > 0 && delay > p.max {
		return p.max
	}
	return delay
}

func (p retryPolicy) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if p.sleeper != nil {
		p.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *httpStatusError) retryable() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		if delay := time.Until(when); delay > 0 {
			return delay, true
		}
	}
	return 0, false
}
