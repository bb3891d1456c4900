package httpx

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// Defaults applied by NewRouter when the matching ServerConfig field is zero.
// Registry request bodies are a handful of small JSON fields.
const (
	DefaultRateLimit      = 100
	DefaultMaxBodyBytes   = 64 << 10
	DefaultHandlerTimeout = 15 * time.Second
)

// ServerConfig holds the options for NewRouter.
type ServerConfig struct {
	ServiceName   string
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string
	// RateLimit is the number of requests per minute allowed per client IP.
	RateLimit int
	// MaxBodyBytes caps every request body.
	MaxBodyBytes int64
	// HandlerTimeout bounds each handler, including its database transaction.
	HandlerTimeout time.Duration
}

func (c ServerConfig) withDefaults() ServerConfig {
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.HandlerTimeout <= 0 {
		c.HandlerTimeout = DefaultHandlerTimeout
	}
	return c
}

// NewRouter returns a chi.Mux pre-wired with the standard middleware stack.
// The app-specific middlewares (logger, recovery, sentry, otel) are passed in
// and placed around the chi built-ins.
//
// Middleware order (outermost → innermost):
//  1. recoveryMiddleware: catches panics that re-panic from sentry
//  2. sentryMiddleware: captures panics, re-panics (Repanic: true)
//  3. RequestID: unique X-Request-Id per request
//  4. otelMiddleware: starts trace span per request
//  5. loggerMiddleware: logs request + trace_id/span_id
//  6. RealIP: sets RemoteAddr from X-Forwarded-For
//  7. RateLimit: cfg.RateLimit req/min per IP, JSON 429 when exceeded
//  8. CORS: cross-origin preflight and headers
//  9. BodyLimit: cfg.MaxBodyBytes request body cap
//  10. Timeout: cfg.HandlerTimeout handler deadline
//  11. Security headers: CSP, HSTS, X-Frame-Options, Permissions-Policy
func NewRouter(
	cfg ServerConfig,
	loggerMiddleware func(http.Handler) http.Handler,
	recoveryMiddleware func(http.Handler) http.Handler,
	sentryMiddleware func(http.Handler) http.Handler,
	otelMiddleware func(http.Handler) http.Handler,
) *chi.Mux {
	cfg = cfg.withDefaults()
	sec := secure.New(SecurityOptions(cfg.IsDevelopment))

	r := chi.NewRouter()
	r.Use(
		recoveryMiddleware,
		sentryMiddleware,
		middleware.RequestID,
		otelMiddleware,
		loggerMiddleware,
		middleware.RealIP,
		RateLimit(cfg.RateLimit, time.Minute),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RequestBodyLimit(cfg.MaxBodyBytes),
		middleware.Timeout(cfg.HandlerTimeout),
		sec.Handler,
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		JSONError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// SecurityOptions returns the unrolled/secure settings for the API. The API
// serves JSON only, so the CSP forbids every content source.
func SecurityOptions(isDevelopment bool) secure.Options {
	return secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), usb=(), payment=()",
		IsDevelopment:         isDevelopment,
	}
}

// RateLimit limits each client IP to n requests per window and answers
// excess requests with a JSON 429.
func RateLimit(n int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(n, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			JSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		}),
	)
}

// CORSMiddleware returns a CORS handler restricted to the given allowed origins.
// allowedOrigins is a comma-separated list (e.g. "https://app.example.com,http://localhost:3000").
// Credentials (the session cookie) are only allowed for explicit origins;
// "*" allows every origin without credentials.
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	origins := parseOrigins(allowedOrigins)
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-RateLimit-Remaining"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	})
}

// parseOrigins splits a comma-separated origins string into a slice, trimming spaces.
func parseOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit returns middleware that caps the request body at maxBytes.
// Reads beyond the cap fail with *http.MaxBytesError, which
// validator.ValidateRequest turns into a 413.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server whose write timeout leaves room for the
// handler timeout.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      DefaultHandlerTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}
