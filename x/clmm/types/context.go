package types

import (
	"context"
)

type callerKey struct{}

// WithCaller returns a context carrying the authenticated caller of an
// invocation. The hosting environment authenticates the caller; the msg
// server checks that it controls the identity named in the message.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller set by WithCaller.
func CallerFromContext(ctx context.Context) (string, bool) {
	caller, ok := ctx.Value(callerKey{}).(string)
	return caller, ok && caller != ""
}
