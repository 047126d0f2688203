// Package editor hands chapter text to a human.
//
// Editor writes the text to a temp file, runs the configured editor command
// on it attached to the terminal, and reads the result back. Prompter asks
// yes/no and menu questions on the same terminal streams.
package editor
