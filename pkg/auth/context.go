package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const identityKey contextKey = "identity"

// ErrIdentityNotFound is returned when no caller identity exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrIdentityNotFound = errors.New("identity not found in context")

// IdentityFromCtx extracts the authenticated caller identity from the request context.
// Returns "" and ErrIdentityNotFound if no identity is set (unauthenticated request).
func IdentityFromCtx(ctx context.Context) (string, error) {
	identity, ok := ctx.Value(identityKey).(string)
	if !ok || identity == "" {
		return "", ErrIdentityNotFound
	}
	return identity, nil
}

// WithIdentity returns a new context with the given caller identity attached.
// Used by authentication middleware after validating the session.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
