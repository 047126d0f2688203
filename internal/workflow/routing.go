package workflow

import "scribe/internal/versionstore"

// Step is where a resumed pipeline re-enters.
type Step int

const (
	// StepNone means the version is terminal.
	StepNone Step = iota
	// StepRewrite runs the automated rewrite, the automated review, then the human passes.
	StepRewrite
	// StepHumanWriterEdit runs the writer, reviewer, and final editor passes.
	StepHumanWriterEdit
)

func (s Step) String() string {
	switch s {
	case StepRewrite:
		return "rewrite"
	case StepHumanWriterEdit:
		return "human_writer_edit"
	default:
		return "none"
	}
}

// NextStep maps a stored stage to its resumption point.
//
// human_writer_reviewed and human_reviewed both re-enter at the writer pass,
// so a resumed human_reviewed version goes through the reviewer pass again.
// A manual branch (edited_from_<X>) is a tip of its own and routes nowhere;
// it is continued by branching again, never by the automated passes.
func NextStep(stage versionstore.Stage) Step {
	switch stage.Kind {
	case versionstore.KindRaw:
		return StepRewrite
	case versionstore.KindAISpun, versionstore.KindAIReviewed:
		return StepHumanWriterEdit
	case versionstore.KindHumanWriterReviewed, versionstore.KindHumanReviewed:
		return StepHumanWriterEdit
	default:
		return StepNone
	}
}

// transition describes one pipeline step that may write a version.
type transition struct {
	name        string
	to          versionstore.Stage
	actor       versionstore.Actor
	automated   bool
	beforeLabel string
	afterLabel  string
}

var (
	rewriteStep = transition{
		name: "rewrite", to: versionstore.StageAISpun, actor: versionstore.ActorAIWriter, automated: true,
		beforeLabel: "Original", afterLabel: "AI Rewritten",
	}
	reviewStep = transition{
		name: "review", to: versionstore.StageAIReviewed, actor: versionstore.ActorAIReviewer, automated: true,
		beforeLabel: "AI Rewritten", afterLabel: "AI Reviewed",
	}
	writerEditStep = transition{
		name: "writer_edit", to: versionstore.StageHumanWriterReviewed, actor: versionstore.ActorHumanWriter,
		beforeLabel: "AI Reviewed", afterLabel: "Human Writer Edited",
	}
	reviewerEditStep = transition{
		name: "reviewer_edit", to: versionstore.StageHumanReviewed, actor: versionstore.ActorHumanReviewer,
		beforeLabel: "Previous Version", afterLabel: "Human Reviewed",
	}
	finalEditStep = transition{
		name: "final_edit", to: versionstore.StageFinal, actor: versionstore.ActorFinalEditor,
		beforeLabel: "Reviewed Version", afterLabel: "Final Version",
	}
)

func plan(step Step) []transition {
	switch step {
	case StepRewrite:
		return []transition{rewriteStep, reviewStep, writerEditStep, reviewerEditStep, finalEditStep}
	case StepHumanWriterEdit:
		return []transition{writerEditStep, reviewerEditStep, finalEditStep}
	default:
		return nil
	}
}
