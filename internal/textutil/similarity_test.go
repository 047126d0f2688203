package textutil

import (
	"math"
	"testing"
)

func TestCosineOfEmptyVectors(t *testing.T) {
	tests := []struct {
		name string
		a, b termCounts
	}{
		{"both empty", termCounts{}, termCounts{}},
		{"a empty", termCounts{}, countTerms("hello world")},
		{"b empty", countTerms("hello world"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosine(tt.a, tt.b); got != 0 {
				t.Errorf("cosine() = %v, want 0", got)
			}
		})
	}
}

func TestSimilarityIdenticalAndDisjoint(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog"
	if got := Similarity(text, text); math.Abs(got-1) > 1e-9 {
		t.Errorf("Similarity(identical) = %v, want 1", got)
	}
	if got := Similarity("apple banana cherry", "dog elephant frog"); got != 0 {
		t.Errorf("Similarity(disjoint) = %v, want 0", got)
	}
	got := Similarity("the quick brown fox", "the slow brown cat")
	if got <= 0 || got >= 1 {
		t.Errorf("Similarity(partial) = %v, want between 0 and 1", got)
	}
}

func TestSimilarityWithoutTokens(t *testing.T) {
	if got := Similarity("a b", "a b"); got != 1 {
		t.Errorf("Similarity(equal short) = %v, want 1", got)
	}
	if got := Similarity("a b", "c d"); got != 0 {
		t.Errorf("Similarity(different short) = %v, want 0", got)
	}
}

func TestTokenizeKeepsUnicodeWords(t *testing.T) {
	got := Tokenize("Kapitel Über-Gänge, at ok")
	want := []string{"kapitel", "über", "gänge"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize = %v, want %v", got, want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := map[string]string{
		"Book 1 / Chapter 1": "book_1_chapter_1",
		"  ":                 "unknown",
		"***":                "unknown",
		"already-safe_token": "already-safe_token",
		"__Draft!!v2--":      "draft_v2",
	}
	for in, want := range tests {
		if got := SanitizeToken(in); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("short", 10); got != "short" {
		t.Errorf("Preview(short) = %q", got)
	}
	if got := Preview("héllo world", 5); got != "héllo..." {
		t.Errorf("Preview(cut) = %q", got)
	}
	if got := Preview("anything", 0); got != "anything" {
		t.Errorf("Preview(no limit) = %q", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("\n\n  Chapter One  \nbody"); got != "Chapter One" {
		t.Errorf("FirstLine = %q", got)
	}
}
