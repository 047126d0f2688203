package logging

import (
	"context"
	"log/slog"
)

// sink is one destination of a teeHandler. When floor is set, records below
// it are dropped for this sink regardless of the handler's own level.
type sink struct {
	handler slog.Handler
	floor   slog.Leveler
}

func (s sink) enabled(ctx context.Context, level slog.Level) bool {
	if s.floor != nil && level < s.floor.Level() {
		return false
	}
	return s.handler.Enabled(ctx, level)
}

// teeHandler writes each record to every sink that accepts its level.
type teeHandler struct {
	sinks []sink
}

func newTeeHandler(sinks ...sink) slog.Handler {
	kept := sinks[:0:0]
	for _, s := range sinks {
		if s.handler != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nopHandler{}
	}
	return &teeHandler{sinks: kept}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, s := range h.sinks {
		if !s.enabled(ctx, record.Level) {
			continue
		}
		// Handlers may retain the record; each sink gets its own copy.
		if err := s.handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h *teeHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]sink, len(h.sinks))
	for i, s := range h.sinks {
		next[i] = sink{handler: fn(s.handler), floor: s.floor}
	}
	return &teeHandler{sinks: next}
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
