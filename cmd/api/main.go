package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/itemchain/docs/swagger"
	"github.com/ghuser/itemchain/pkg/app"
	"github.com/ghuser/itemchain/pkg/config"
	"github.com/ghuser/itemchain/pkg/httpx"
	"github.com/ghuser/itemchain/pkg/logger"
	"github.com/ghuser/itemchain/pkg/telemetry"
	itemApi "github.com/ghuser/itemchain/services/item/application/api"
)

const shutdownTimeout = 30 * time.Second

// @title					Itemchain API
// @version				1.0
// @description			Supply-chain item registry with per-item escrow.
// @contact.name			API Support
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	if err := run(cfg, log); err != nil {
		log.Error("api exited", "error", err)
		os.Exit(1)
	}
}

// run serves the API until SIGINT or SIGTERM. Deferred cleanups run in
// reverse order of acquisition before it returns.
func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	deps, err := openInfra(ctx, cfg, log)
	defer deps.close()
	if err != nil {
		return err
	}

	a := &app.Application{
		Config:         cfg,
		Db:             deps.pool,
		Logger:         log,
		EventBus:       deps.bus,
		Redis:          deps.redis,
		TemporalClient: deps.temporal,
		SessionStore:   deps.sessions,
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)
	r.Get("/health", httpx.HealthHandler(deps.checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, a)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// registerRoutes mounts all service routes under /api.
func registerRoutes(r chi.Router, a *app.Application) {
	itemApi.ItemRoutes(r, a)
}
