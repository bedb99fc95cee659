package logger

import (
	"context"
)

type contextKey struct{}

// WithContext attaches the logger to a context so probe, diff, and
// reconcile entry points can retrieve it without shared mutable state.
func WithContext(ctx context.Context, log *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext retrieves the logger attached to the context. A context
// without a logger yields a nil *Logger, which every method tolerates.
func FromContext(ctx context.Context) *Logger {
	log, _ := ctx.Value(contextKey{}).(*Logger)
	return log
}
