package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scribe/internal/config"
	"scribe/internal/notifications"
)

type captured struct {
	title    string
	body     string
	tags     string
	priority string
}

func newNtfyServer(t *testing.T, status int) (*httptest.Server, chan captured) {
	t.Helper()
	requests := make(chan captured, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests <- captured{
			title:    r.Header.Get("Title"),
			body:     string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte("topic says no"))
	}))
	t.Cleanup(srv.Close)
	return srv, requests
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if notifications.Enabled(svc) {
		t.Fatal("expected disabled service without a topic")
	}
	if err := svc.NotifyFinalized(context.Background(), "Chapter 1", "abc"); err != nil {
		t.Fatalf("noop notifier returned %v", err)
	}
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	tests := []struct {
		name         string
		send         func(notifications.Service) error
		wantTitle    string
		wantBody     string
		wantTags     string
		wantPriority string
	}{
		{
			name: "finalized",
			send: func(s notifications.Service) error {
				return s.NotifyFinalized(context.Background(), "The Gates of Morning", "v-123")
			},
			wantTitle:    "Scribe - Final",
			wantBody:     "Chapter finalized: The Gates of Morning\nVersion: v-123",
			wantTags:     "scribe,final,completed",
			wantPriority: "high",
		},
		{
			name: "finalized without title",
			send: func(s notifications.Service) error {
				return s.NotifyFinalized(context.Background(), "  ", "")
			},
			wantTitle:    "Scribe - Final",
			wantBody:     "Chapter finalized: untitled chapter",
			wantTags:     "scribe,final,completed",
			wantPriority: "high",
		},
		{
			name: "halted",
			send: func(s notifications.Service) error {
				return s.NotifyHalted(context.Background(), errors.New("review: rate limited"), "AI_reviewed")
			},
			wantTitle:    "Scribe - Halted",
			wantBody:     "Pipeline halted before AI_reviewed: review: rate limited",
			wantTags:     "scribe,error,alert",
			wantPriority: "high",
		},
		{
			name:         "test",
			send:         func(s notifications.Service) error { return s.TestNotification(context.Background()) },
			wantTitle:    "Scribe - Test",
			wantBody:     "Notification system test",
			wantTags:     "scribe,test",
			wantPriority: "low",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, requests := newNtfyServer(t, http.StatusOK)
			cfg := config.Default()
			cfg.Notifications.NtfyTopic = srv.URL
			svc := notifications.NewService(&cfg)
			if !notifications.Enabled(svc) {
				t.Fatal("expected enabled service")
			}
			if err := tc.send(svc); err != nil {
				t.Fatalf("send: %v", err)
			}
			got := <-requests
			if got.title != tc.wantTitle {
				t.Fatalf("title = %q, want %q", got.title, tc.wantTitle)
			}
			if got.body != tc.wantBody {
				t.Fatalf("body = %q, want %q", got.body, tc.wantBody)
			}
			if got.tags != tc.wantTags {
				t.Fatalf("tags = %q, want %q", got.tags, tc.wantTags)
			}
			if got.priority != tc.wantPriority {
				t.Fatalf("priority = %q, want %q", got.priority, tc.wantPriority)
			}
		})
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	srv, _ := newNtfyServer(t, http.StatusForbidden)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	err := notifications.NewService(&cfg).TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "topic says no") {
		t.Fatalf("unexpected error: %v", err)
	}
}
