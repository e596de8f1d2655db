// Package identity resolves the caller of an HTTP request to an opaque user id.
// A provider reports "no identity" as an empty id with a nil error; errors are
// reserved for failures of the provider itself.
package identity

import (
	"context"
	"net/http"
)

// Provider resolves the caller of a request.
type Provider interface {
	Identify(ctx context.Context, r *http.Request) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, r *http.Request) (string, error)

// Identify calls f.
func (f ProviderFunc) Identify(ctx context.Context, r *http.Request) (string, error) {
	return f(ctx, r)
}

// Chain tries each provider in order and returns the first identity found.
type Chain []Provider

// Identify implements Provider.
func (c Chain) Identify(ctx context.Context, r *http.Request) (string, error) {
	for _, p := range c {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		userID, err := p.Identify(ctx, r)
		if err != nil {
			return "", err
		}
		if userID != "" {
			return userID, nil
		}
	}
	return "", nil
}

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying the resolved user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFrom returns the user id stored by WithUserID.
func UserIDFrom(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}
