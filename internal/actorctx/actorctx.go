// Package actorctx carries the identity of whoever triggered a request
// through a context.Context, so code below the HTTP layer can log and
// correlate without depending on gin.
package actorctx

import "context"

type ctxKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func RequestIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKey{}).(string)

	return v, ok && v != ""
}
