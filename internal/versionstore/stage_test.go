package versionstore_test

import (
	"errors"
	"testing"

	"scribe/internal/services"
	"scribe/internal/versionstore"
)

func TestParseStageRoundTrip(t *testing.T) {
	labels := []string{
		"raw",
		"AI_spun",
		"AI_reviewed",
		"human_writer_reviewed",
		"human_reviewed",
		"final",
		"edited_from_raw",
		"edited_from_final",
		"edited_from_edited_from_AI_spun",
	}
	for _, label := range labels {
		stage, err := versionstore.ParseStage(label)
		if err != nil {
			t.Fatalf("ParseStage(%q) returned error: %v", label, err)
		}
		if stage.String() != label {
			t.Fatalf("round trip mismatch: %q -> %q", label, stage.String())
		}
	}
}

func TestParseStageRejectsUnknown(t *testing.T) {
	for _, label := range []string{"", "draft", "edited_from_", "edited_from_draft", "RAW"} {
		_, err := versionstore.ParseStage(label)
		if err == nil {
			t.Fatalf("expected error for %q", label)
		}
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected validation marker for %q, got %v", label, err)
		}
	}
}

func TestEditedFromAndBase(t *testing.T) {
	edited := versionstore.EditedFrom(versionstore.StageAIReviewed)
	if edited.Kind != versionstore.KindEdited || edited.String() != "edited_from_AI_reviewed" {
		t.Fatalf("unexpected edited stage: %+v", edited)
	}
	twice := versionstore.EditedFrom(edited)
	if twice.String() != "edited_from_edited_from_AI_reviewed" {
		t.Fatalf("unexpected nested label: %q", twice.String())
	}
	if twice.Base() != versionstore.StageAIReviewed {
		t.Fatalf("expected base AI_reviewed, got %+v", twice.Base())
	}
	if versionstore.StageFinal.Base() != versionstore.StageFinal {
		t.Fatal("expected pipeline stage to be its own base")
	}
	if !versionstore.StageFinal.IsTerminal() || versionstore.EditedFrom(versionstore.StageFinal).IsTerminal() {
		t.Fatal("only final is terminal")
	}
}

func TestParseActor(t *testing.T) {
	if actor, ok := versionstore.ParseActor("Human Editor"); !ok || actor != versionstore.ActorHumanEditor {
		t.Fatalf("unexpected actor: %q %v", actor, ok)
	}
	if _, ok := versionstore.ParseActor("robot"); ok {
		t.Fatal("expected unknown actor to be rejected")
	}
}
