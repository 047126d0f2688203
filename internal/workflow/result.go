package workflow

import "scribe/internal/versionstore"

// Outcome summarizes how a run ended.
type Outcome string

const (
	OutcomeCompleted    Outcome = "completed"
	OutcomeAlreadyFinal Outcome = "already_final"
	// OutcomeBranchTip means the latest version is a manual branch, which
	// the pipeline does not resume.
	OutcomeBranchTip Outcome = "branch_tip"
	OutcomeHalted    Outcome = "halted"
	OutcomeUnchanged Outcome = "unchanged"
)

// Diff is a before/after pair produced by a transition that changed content.
type Diff struct {
	BeforeID    string
	AfterID     string
	BeforeLabel string
	AfterLabel  string
	Before      string
	After       string
}

// Result records what a run wrote.
type Result struct {
	CorrelationID string
	// Start is the version the run began from.
	Start versionstore.Version
	// Step is the resumption point chosen for Start.
	Step    Step
	Written []versionstore.Version
	Diffs   []Diff
	// LastID is the last durable version of the run and the resumption point
	// after a halt.
	LastID  string
	Outcome Outcome
}

// WrittenStages lists the stage labels written by the run, in order.
func (r Result) WrittenStages() []string {
	stages := make([]string, 0, len(r.Written))
	for _, v := range r.Written {
		stages = append(stages, v.StageLabel())
	}
	return stages
}
