package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/itemchain/pkg/httpx"
	"github.com/ghuser/itemchain/pkg/logger"
)

const (
	sessionName        = "itemchain_session"
	sessionIdentityKey = "identity"

	// MaxIdentityLength bounds the identity string stored in a session.
	MaxIdentityLength = 256
)

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the caller identity, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks an identity.
//
// After this middleware, handlers can safely call auth.IdentityFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			identity, ok := session.Values[sessionIdentityKey].(string)
			if !ok || identity == "" {
				log.WarnContext(r.Context(), "session missing identity")
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if err := ValidateIdentity(identity); err != nil {
				log.WarnContext(r.Context(), "invalid identity in session", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "invalid session data")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Login stores identity in the caller's session and writes the session cookie.
func Login(w http.ResponseWriter, r *http.Request, store sessions.Store, identity string) error {
	if err := ValidateIdentity(identity); err != nil {
		return err
	}
	session, err := store.Get(r, sessionName)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	session.Values[sessionIdentityKey] = identity
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ValidateIdentity rejects empty or oversized identities.
func ValidateIdentity(identity string) error {
	switch {
	case identity == "":
		return fmt.Errorf("identity must not be empty")
	case len(identity) > MaxIdentityLength:
		return fmt.Errorf("identity exceeds %d bytes", MaxIdentityLength)
	}
	return nil
}
