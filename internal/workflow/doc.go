// Package workflow advances a chapter through the staged revision pipeline.
//
// The Manager drives a content item from acquisition through the automated
// rewrite and review steps and then the three human editing passes (writer,
// reviewer, final editor), persisting a new immutable version at every
// transition with source_version pointing at its predecessor. Human passes are
// optional: an unchanged edit writes nothing and the pipeline carries on with
// the previous version. Automated passes are mandatory: a failure halts the
// run and leaves the last stored version as the resumption point.
//
// Resumption routes purely on the stage of the newest version for a URL (see
// NextStep). Branching edits any historical version and records the result as
// edited_from_<stage>, creating a new lineage tip.
//
// Collaborators (acquisition, transformation, editing, diff presentation) are
// injected as interfaces; this package owns only the state machine.
package workflow
