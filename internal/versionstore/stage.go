package versionstore

import (
	"fmt"
	"strings"

	"scribe/internal/services"
)

// StageKind tags the closed set of pipeline stages.
type StageKind int

const (
	KindUnknown StageKind = iota
	KindRaw
	KindAISpun
	KindAIReviewed
	KindHumanWriterReviewed
	KindHumanReviewed
	KindFinal
	KindEdited
)

// EditedPrefix marks stages produced by branching from a historical version.
const EditedPrefix = "edited_from_"

var kindLabels = map[StageKind]string{
	KindRaw:                 "raw",
	KindAISpun:              "AI_spun",
	KindAIReviewed:          "AI_reviewed",
	KindHumanWriterReviewed: "human_writer_reviewed",
	KindHumanReviewed:       "human_reviewed",
	KindFinal:               "final",
}

// Stage identifies the pipeline step that produced a version. Derived stages
// (KindEdited) carry the label of the stage they were branched from in Origin,
// which may itself be a derived label.
type Stage struct {
	Kind   StageKind
	Origin string
}

var (
	StageRaw                 = Stage{Kind: KindRaw}
	StageAISpun              = Stage{Kind: KindAISpun}
	StageAIReviewed          = Stage{Kind: KindAIReviewed}
	StageHumanWriterReviewed = Stage{Kind: KindHumanWriterReviewed}
	StageHumanReviewed       = Stage{Kind: KindHumanReviewed}
	StageFinal               = Stage{Kind: KindFinal}
)

// PipelineStages lists the non-derived stages in forward order.
func PipelineStages() []Stage {
	return []Stage{StageRaw, StageAISpun, StageAIReviewed, StageHumanWriterReviewed, StageHumanReviewed, StageFinal}
}

// ParseStage converts a stored stage label into a Stage.
func ParseStage(label string) (Stage, error) {
	trimmed := strings.TrimSpace(label)
	for kind, known := range kindLabels {
		if trimmed == known {
			return Stage{Kind: kind}, nil
		}
	}
	if origin, ok := strings.CutPrefix(trimmed, EditedPrefix); ok {
		if _, err := ParseStage(origin); err != nil {
			return Stage{}, err
		}
		return Stage{Kind: KindEdited, Origin: origin}, nil
	}
	return Stage{}, services.Wrap(services.ErrValidation, "", "parse stage", fmt.Sprintf("unknown stage %q", label), nil)
}

// String renders the stored label.
func (s Stage) String() string {
	if s.Kind == KindEdited {
		return EditedPrefix + s.Origin
	}
	if label, ok := kindLabels[s.Kind]; ok {
		return label
	}
	return "unknown"
}

// EditedFrom returns the derived stage recorded when a version at s is branched.
func EditedFrom(s Stage) Stage {
	return Stage{Kind: KindEdited, Origin: s.String()}
}

// Base strips every edited_from_ layer and returns the underlying pipeline stage.
func (s Stage) Base() Stage {
	current := s
	for current.Kind == KindEdited {
		next, err := ParseStage(current.Origin)
		if err != nil {
			return Stage{}
		}
		current = next
	}
	return current
}

// IsTerminal reports whether no further pipeline step follows s.
func (s Stage) IsTerminal() bool {
	return s.Kind == KindFinal
}

// Actor names who produced a version.
type Actor string

const (
	ActorScraper       Actor = "scraper"
	ActorAIWriter      Actor = "AI Writer"
	ActorAIReviewer    Actor = "AI Reviewer"
	ActorHumanWriter   Actor = "Human Writer"
	ActorHumanReviewer Actor = "Human Reviewer"
	ActorFinalEditor   Actor = "Final Editor"
	ActorHumanEditor   Actor = "Human Editor"
)

var allActors = []Actor{
	ActorScraper,
	ActorAIWriter,
	ActorAIReviewer,
	ActorHumanWriter,
	ActorHumanReviewer,
	ActorFinalEditor,
	ActorHumanEditor,
}

// ParseActor validates a stored processed_by label.
func ParseActor(label string) (Actor, bool) {
	trimmed := strings.TrimSpace(label)
	for _, actor := range allActors {
		if string(actor) == trimmed {
			return actor, true
		}
	}
	return "", false
}
