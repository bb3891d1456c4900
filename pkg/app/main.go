package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/itemchain/pkg/cache"
	"github.com/ghuser/itemchain/pkg/config"
	"github.com/ghuser/itemchain/pkg/database"
	"github.com/ghuser/itemchain/pkg/events"
	"github.com/ghuser/itemchain/pkg/logger"
	"github.com/ghuser/itemchain/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service route functions during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler: use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "item advanced", "item_index", index)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database // nil with the memory storage backend
	Logger         logger.Logger
	EventBus       *events.EventBus // nil with the memory storage backend
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient // nil unless TEMPORAL_ENABLED
	SessionStore   sessions.Store            // Redis-backed session store; nil in worker process
}
