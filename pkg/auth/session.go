// Package auth carries the caller identity of registry operations.
//
// A caller opens a session once; the session holds a single identity string
// that RequireAuth places in the request context. Session keys should be 32
// or 64 bytes for HMAC authentication and 16, 24 or 32 bytes for AES
// encryption. Generate production keys with:
//
//	openssl rand -base64 32
package auth

import (
	"context"
	"encoding/base32"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const defaultSessionMaxAge = 7 * 24 * time.Hour

// SessionConfig configures a RedisStore.
type SessionConfig struct {
	AuthKey       []byte
	EncryptionKey []byte
	// Secure marks the cookie HTTPS-only. Set it in production.
	Secure bool
	// MaxAge is both the cookie lifetime and the Redis TTL. Zero means 7 days.
	MaxAge time.Duration
	// KeyPrefix is prepended to the session ID to form the Redis key.
	KeyPrefix string
}

// RedisStore is a sessions.Store that keeps session values in Redis and
// sends only the encrypted session ID to the client.
//
// Values must be strings keyed by strings; they are stored as a JSON object
// under KeyPrefix+ID. Every successful read slides the TTL forward.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	prefix  string
	maxAge  time.Duration
	options *sessions.Options
}

// NewSessionStore creates a Redis-backed session store.
//
//	store := auth.NewSessionStore(app.Redis.Client(), auth.SessionConfig{
//	    AuthKey:       []byte(cfg.SessionAuthKey),
//	    EncryptionKey: []byte(cfg.SessionEncryptionKey),
//	    Secure:        cfg.Environment == config.EnvProduction,
//	    MaxAge:        cfg.SessionMaxAge,
//	    KeyPrefix:     app.Redis.Key("session", ""),
//	})
func NewSessionStore(client *redis.Client, cfg SessionConfig) *RedisStore {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = defaultSessionMaxAge
	}
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(cfg.AuthKey, cfg.EncryptionKey),
		prefix: cfg.KeyPrefix,
		maxAge: maxAge,
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(maxAge / time.Second),
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the request's session, loading it from Redis at most once per request.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New decodes the session cookie and loads its values. A missing, tampered
// or expired session yields a fresh one without error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	values, err := s.load(r.Context(), id)
	if err != nil {
		return session, nil
	}
	session.ID = id
	session.Values = values
	session.IsNew = false
	return session, nil
}

// Save persists the session and writes the cookie. MaxAge < 0 deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			_ = s.client.Del(r.Context(), s.prefix+session.ID).Err()
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}

	data, err := encodeValues(session.Values)
	if err != nil {
		return err
	}
	if err := s.client.Set(r.Context(), s.prefix+session.ID, data, s.maxAge).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string) (map[any]any, error) {
	data, err := s.client.GetEx(ctx, s.prefix+id, s.maxAge).Bytes()
	if err != nil {
		return nil, fmt.Errorf("get session from redis: %w", err)
	}
	return decodeValues(data)
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}

func encodeValues(values map[any]any) ([]byte, error) {
	flat := make(map[string]string, len(values))
	for k, v := range values {
		ks, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("session key %v is not a string", k)
		}
		vs, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("session value for %q is %T, want string", ks, v)
		}
		flat[ks] = vs
	}
	return json.Marshal(flat)
}

func decodeValues(data []byte) (map[any]any, error) {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("decode session values: %w", err)
	}
	values := make(map[any]any, len(flat))
	for k, v := range flat {
		values[k] = v
	}
	return values, nil
}
