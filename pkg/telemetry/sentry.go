package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/itemchain/pkg/config"
)

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: cfg.SentrySampleRate,
		BeforeSend:       dropCancelled,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("storage_backend", cfg.StorageBackend)
	})
	return nil
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware captures handler panics. It repanics so logger.Recovery
// still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true, Timeout: 2 * time.Second}).Handle
}

// CaptureError reports err with the given tags on the hub bound to ctx, or
// the current hub. Cancellations are not reported.
func CaptureError(ctx context.Context, err error, tags ...string) {
	if err == nil || isCancellation(err) {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for i := 0; i+1 < len(tags); i += 2 {
			scope.SetTag(tags[i], tags[i+1])
		}
		hub.CaptureException(err)
	})
}

// dropCancelled discards events whose original error is a context
// cancellation or deadline; shutdowns produce many of those.
func dropCancelled(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if hint != nil && hint.OriginalException != nil && isCancellation(hint.OriginalException) {
		return nil
	}
	return event
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
