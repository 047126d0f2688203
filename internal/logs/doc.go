// Package logs reads scribe's run log from disk.
//
// Tail returns the last lines of the log, or the lines appended after a byte
// offset, optionally waiting for new output. A Filter narrows the result to a
// single run, version or minimum level and understands both the console and
// JSON log formats.
package logs
