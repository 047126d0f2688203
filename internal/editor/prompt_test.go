package editor_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"scribe/internal/editor"
)

func TestPrompterAskUsesDefault(t *testing.T) {
	var out bytes.Buffer
	p := editor.NewPrompter(strings.NewReader("\nChapter 2\n"), &out)

	got, err := p.Ask("Chapter label", "Unknown")
	if err != nil || got != "Unknown" {
		t.Fatalf("Ask = %q, %v", got, err)
	}
	got, err = p.Ask("Chapter label", "Unknown")
	if err != nil || got != "Chapter 2" {
		t.Fatalf("Ask = %q, %v", got, err)
	}
	if !strings.Contains(out.String(), "Chapter label [Unknown]: ") {
		t.Fatalf("prompt = %q", out.String())
	}
}

func TestPrompterConfirm(t *testing.T) {
	p := editor.NewPrompter(strings.NewReader("Y\nno\n"), &bytes.Buffer{})
	if ok, err := p.Confirm("View full content?"); err != nil || !ok {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
	if ok, err := p.Confirm("View full content?"); err != nil || ok {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
}

func TestPrompterChooseRetriesUntilValid(t *testing.T) {
	var out bytes.Buffer
	p := editor.NewPrompter(strings.NewReader("abc\n9\n2\n"), &out)
	got, err := p.Choose("Pick", []string{"one", "two"})
	if err != nil || got != 2 {
		t.Fatalf("Choose = %d, %v", got, err)
	}
	text := out.String()
	if !strings.Contains(text, "Please enter a valid number.") || !strings.Contains(text, "between 1 and 2") {
		t.Fatalf("missing retry hints: %q", text)
	}
}

func TestPrompterInputClosed(t *testing.T) {
	p := editor.NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	if _, err := p.Confirm("Continue?"); !errors.Is(err, editor.ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed, got %v", err)
	}
}

func TestPrompterAcceptsFinalLineWithoutNewline(t *testing.T) {
	p := editor.NewPrompter(strings.NewReader("1"), &bytes.Buffer{})
	got, err := p.Choose("Pick", []string{"only"})
	if err != nil || got != 1 {
		t.Fatalf("Choose = %d, %v", got, err)
	}
}
