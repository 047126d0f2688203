// Package main hosts the scribe CLI entrypoint and command graph.
//
// The Cobra command tree wires the version store, the retriever, and the
// revision workflow to a terminal. Commands that write versions hold a
// session lock on the data directory; read-only commands render tables or
// JSON straight from the store.
package main
