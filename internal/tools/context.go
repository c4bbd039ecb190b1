package tools

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	toolNameKey
)

// NewRequestID returns a fresh correlation id for one invocation.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID attaches a request id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request id attached to ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithToolName attaches the name of the tool being invoked to ctx.
func WithToolName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, toolNameKey, name)
}

// ToolNameFrom returns the tool name attached to ctx, or "".
func ToolNameFrom(ctx context.Context) string {
	name, _ := ctx.Value(toolNameKey).(string)
	return name
}
