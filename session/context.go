package session

import "context"

// Context keys for request-scoped values.
type contextKey int

const headersKey contextKey = iota

// WithRequestHeaders returns a new context with transport headers
// attached. Hooks such as JWTSessionID read credentials from here, which
// keeps the classifier decoupled from any particular transport.
func WithRequestHeaders(ctx context.Context, headers map[string][]string) context.Context {
	return context.WithValue(ctx, headersKey, headers)
}

// RequestHeadersFromContext retrieves transport headers from the context.
// Returns nil if none are present.
func RequestHeadersFromContext(ctx context.Context) map[string][]string {
	h, _ := ctx.Value(headersKey).(map[string][]string)
	return h
}

// requestHeader returns the first value of a header, or empty string.
func requestHeader(ctx context.Context, name string) string {
	headers := RequestHeadersFromContext(ctx)
	if headers == nil {
		return ""
	}
	values := headers[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
