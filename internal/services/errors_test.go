package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"scribe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransform, "AI_spun", "rewrite", "model call failed", base)
	if !errors.Is(err, services.ErrTransform) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transform error", "AI_spun", "rewrite", "model call failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestDetails(t *testing.T) {
	wrapped := fmt.Errorf("run: %w", services.Wrap(services.ErrAcquisition, "raw", "fetch", "empty content", errors.New("no text")))
	details := services.Details(wrapped)
	if details.Kind != "acquisition" || details.Stage != "raw" || details.Operation != "fetch" {
		t.Fatalf("unexpected details: %+v", details)
	}
	if details.Message != "empty content" || details.Cause != "no text" {
		t.Fatalf("unexpected message/cause: %+v", details)
	}

	plain := services.Details(fmt.Errorf("lookup: %w", services.ErrNotFound))
	if plain.Kind != "not_found" {
		t.Fatalf("expected not_found kind, got %+v", plain)
	}
	if (services.Details(nil) != services.ErrorDetails{}) {
		t.Fatal("expected zero details for nil")
	}
}
