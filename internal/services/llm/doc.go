// Package llm is the chat completion client behind the automated rewrite and
// review passes. It speaks the OpenRouter-compatible /chat/completions API.
//
// Client.Do sends one Request and returns a Completion with the reply text,
// finish reason, token usage and the number of attempts it took. Complete
// and CompleteJSON are shorthands used by health checks. DecodeLLMJSON
// reads model JSON that arrives fenced or wrapped in prose.
//
// Transient failures (HTTP 408, 429 and 5xx, empty replies, network
// timeouts) are retried with doubling backoff, honouring Retry-After. A
// reply cut off at the token limit fails with ErrTruncated and is not
// retried, since a partial chapter must never be stored.
package llm
