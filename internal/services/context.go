package services

import "context"

type contextKey string

const (
	versionIDKey   contextKey = "version_id"
	stageKey       contextKey = "stage"
	originalURLKey contextKey = "original_url"
	requestIDKey   contextKey = "request_id"
)

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithVersionID annotates context with the version being processed.
func WithVersionID(ctx context.Context, id string) context.Context {
	return withString(ctx, versionIDKey, id)
}

// VersionIDFromContext extracts the version identifier if present.
func VersionIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, versionIDKey)
}

// WithStage annotates context with the workflow stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, stageKey)
}

// WithOriginalURL annotates context with the chapter source URL.
func WithOriginalURL(ctx context.Context, url string) context.Context {
	return withString(ctx, originalURLKey, url)
}

// OriginalURLFromContext returns the chapter source URL if present.
func OriginalURLFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, originalURLKey)
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, requestIDKey)
}
