package credstore

import "context"

type clientIDContextKey struct{}
type userAgentContextKey struct{}

// WithClientID attaches a caller identifier (device id, IP, session cookie)
// to ctx. It is stored on failed attempts and audit events.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDContextKey{}, clientID)
}

// WithUserAgent attaches the caller's User-Agent string to ctx. It is used as
// the client identifier when WithClientID was not set.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentContextKey{}, userAgent)
}

func clientIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, _ := ctx.Value(clientIDContextKey{}).(string); id != "" {
		return id
	}
	userAgent, _ := ctx.Value(userAgentContextKey{}).(string)
	return userAgent
}
