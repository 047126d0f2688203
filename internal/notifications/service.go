package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scribe/internal/config"
)

const userAgent = "Scribe-Go/0.1.0"

// Service is the notification surface used by the workflow and CLI.
type Service interface {
	NotifyFinalized(ctx context.Context, title, versionID string) error
	NotifyHalted(ctx context.Context, err error, stage string) error
	TestNotification(ctx context.Context) error
}

// NewService builds an ntfy-backed Service, or a no-op when no topic is set.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether svc delivers anywhere.
func Enabled(svc Service) bool {
	_, noop := svc.(noopService)
	return svc != nil && !noop
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyFinalized(ctx context.Context, title, versionID string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "untitled chapter"
	}
	body := fmt.Sprintf("Chapter finalized: %s", title)
	if versionID = strings.TrimSpace(versionID); versionID != "" {
		body += "\nVersion: " + versionID
	}
	return n.send(ctx, message{
		title:    "Scribe - Final",
		body:     body,
		tags:     []string{"scribe", "final", "completed"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyHalted(ctx context.Context, cause error, stage string) error {
	var b strings.Builder
	b.WriteString("Pipeline halted")
	if stage = strings.TrimSpace(stage); stage != "" {
		b.WriteString(" before ")
		b.WriteString(stage)
	}
	b.WriteString(": ")
	if cause != nil {
		b.WriteString(strings.TrimSpace(cause.Error()))
	} else {
		b.WriteString("unknown error")
	}
	return n.send(ctx, message{
		title:    "Scribe - Halted",
		body:     b.String(),
		tags:     []string{"scribe", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, message{
		title:    "Scribe - Test",
		body:     "Notification system test",
		tags:     []string{"scribe", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyFinalized(context.Context, string, string) error { return nil }
func (noopService) NotifyHalted(context.Context, error, string) error     { return nil }
func (noopService) TestNotification(context.Context) error                { return nil }
