package context

import (
	"context"
)

type contextKey string

const (
	contextKeyTraceID  = contextKey("traceID")
	contextKeyUsername = contextKey("username")
)

// TraceIDFromContext extracts the console session trace ID from the context.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(contextKeyTraceID).(string)

	return traceID, ok
}

// WithTraceID returns a context carrying the given session trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKeyTraceID, traceID)
}

// UsernameFromContext extracts the username an operation acts on.
// Returns false if no username was attached or it is empty.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(contextKeyUsername).(string)

	return username, ok && username != ""
}

// WithUsername returns a context carrying username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKeyUsername, username)
}
