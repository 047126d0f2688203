// Package transform implements the automated rewrite and review passes on
// top of the chat completion client in services/llm.
//
// Rewrite asks the writer model for a plain-text rewrite. Review asks the
// reviewer model for a JSON object carrying the revised chapter plus short
// editorial comments; the comments are logged and only the revised text is
// returned. Retries and backoff live in the LLM client.
package transform
