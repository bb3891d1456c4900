// Package logger provides the slog-backed Logger used by every itemchain
// process. Records written through the *Context methods carry the OTel
// trace_id and span_id and the chi request_id of the current request.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/itemchain/pkg/config"
)

// Logger is the project-wide logging interface.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	DebugContext(ctx context.Context, msg string, args ...any)
	// With returns a new Logger with the given key-value pairs bound as attributes.
	With(args ...any) Logger
	// ToSlog returns the underlying *slog.Logger for third-party libraries.
	ToSlog() *slog.Logger
}

// New returns the process logger writing to stdout. Development uses the
// text handler; every other environment writes JSON. Each record carries
// the service name, version and storage backend.
func New(cfg *config.Config) Logger {
	var h slog.Handler
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	if cfg.Environment == config.EnvDevelopment {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	l := wrap(h)
	if cfg.ServiceName != "" {
		l = l.With("service", cfg.ServiceName, "version", cfg.ServiceVersion, "storage", cfg.StorageBackend)
	}
	return l
}

// NewWithWriter returns a JSON Logger writing to w at the given level.
func NewWithWriter(w io.Writer, level string) Logger {
	return wrap(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return wrap(slog.DiscardHandler)
}

func wrap(h slog.Handler) Logger {
	return &slogLogger{Logger: slog.New(&contextHandler{h})}
}

// ParseLevel accepts the slog level names ("debug", "INFO", "warn+2", ...)
// and falls back to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// slogLogger promotes every *slog.Logger method; only With is overridden to
// keep returning the Logger interface.
type slogLogger struct {
	*slog.Logger
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{Logger: l.Logger.With(args...)}
}

func (l *slogLogger) ToSlog() *slog.Logger {
	return l.Logger
}

// contextHandler adds trace and request identifiers found in ctx.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if requestID := middleware.GetReqID(ctx); requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{h.Handler.WithGroup(name)}
}
