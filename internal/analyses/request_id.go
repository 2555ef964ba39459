package analyses

import "context"

type requestIDKey struct{}

// WithRequestID tags ctx so pipeline logs can be joined to the HTTP request
// or queue message that started the run.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

