// Package textutil provides small text helpers shared by the CLI and the
// revision workflow.
//
// Similarity compares the case-folded word counts of two texts and is logged
// after every model pass to show how far a revision drifted from its input.
// SanitizeToken turns stage names and ids into editor buffer names.
package textutil
