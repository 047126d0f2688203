package services_test

import (
	"context"
	"testing"

	"scribe/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithVersionID(ctx, "v-42")
	ctx = services.WithStage(ctx, "AI_spun")
	ctx = services.WithOriginalURL(ctx, "https://example.com/ch1")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.VersionIDFromContext(ctx); !ok || id != "v-42" {
		t.Fatalf("unexpected version id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "AI_spun" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if url, ok := services.OriginalURLFromContext(ctx); !ok || url != "https://example.com/ch1" {
		t.Fatalf("unexpected url: %v %v", url, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
