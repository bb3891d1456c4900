package main

import (
	"context"
	"fmt"

	"github.com/gorilla/sessions"

	itemmigrations "github.com/ghuser/itemchain/migrations/item"
	"github.com/ghuser/itemchain/pkg/auth"
	"github.com/ghuser/itemchain/pkg/cache"
	"github.com/ghuser/itemchain/pkg/config"
	"github.com/ghuser/itemchain/pkg/database"
	"github.com/ghuser/itemchain/pkg/events"
	"github.com/ghuser/itemchain/pkg/httpx"
	"github.com/ghuser/itemchain/pkg/logger"
	"github.com/ghuser/itemchain/pkg/migrator"
	"github.com/ghuser/itemchain/pkg/workflows"
)

// infra is the set of connections the API process holds open.
type infra struct {
	pool     *database.Database
	bus      *events.EventBus
	redis    *cache.RedisClient
	temporal *workflows.TemporalClient
	sessions sessions.Store
	checks   httpx.HealthChecks

	closers []func()
}

func (i *infra) onClose(fn func()) { i.closers = append(i.closers, fn) }

// close releases everything opened so far, newest first.
func (i *infra) close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
}

// openInfra connects the storage backend, Redis and optionally Temporal. The
// returned infra is non-nil even on error so the caller can close what was
// opened.
func openInfra(ctx context.Context, cfg *config.Config, log logger.Logger) (*infra, error) {
	i := &infra{checks: httpx.HealthChecks{Storage: cfg.StorageBackend}}

	if cfg.UsesMemoryBackend() {
		log.Warn("memory storage backend selected; items are lost on restart")
	} else if err := i.openPostgres(ctx, cfg, log); err != nil {
		return i, err
	}

	redisClient, err := cache.NewRedisClient(ctx, cache.OptionsFromConfig(cfg))
	if err != nil {
		return i, fmt.Errorf("connect redis: %w", err)
	}
	i.onClose(func() { _ = redisClient.Close() })
	i.redis = redisClient
	i.checks.Redis = redisClient
	log.Info("redis connected", "namespace", redisClient.Namespace())

	// With postgres the worker notifies Temporal from the event stream.
	if cfg.TemporalEnabled && cfg.UsesMemoryBackend() {
		tc, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, cfg.TemporalTaskQueue, log)
		if err != nil {
			return i, fmt.Errorf("connect temporal: %w", err)
		}
		i.onClose(tc.Close)
		i.temporal = tc
		i.checks.Temporal = tc
	}

	i.sessions = auth.NewSessionStore(redisClient.Client(), auth.SessionConfig{
		AuthKey:       []byte(cfg.SessionAuthKey),
		EncryptionKey: []byte(cfg.SessionEncryptionKey),
		Secure:        cfg.Environment == config.EnvProduction,
		MaxAge:        cfg.SessionMaxAge,
		KeyPrefix:     redisClient.Key("session", ""),
	})
	log.Info("session store initialized", "backend", "redis")
	return i, nil
}

// openPostgres connects the pool and the outbox event bus, and starts the
// forwarder that relays committed outbox rows to the topic tables.
func (i *infra) openPostgres(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	i.onClose(func() { _ = pool.Close() })
	i.pool = pool
	i.checks.Database = pool
	log.Info("database pool connected")

	if cfg.MigrateOnStart {
		if err := migrator.Apply(ctx, pool.DB(), itemmigrations.FS, migrator.CommandUp); err != nil {
			return err
		}
		log.Info("item migrations applied")
	}

	opts := events.OptionsFromConfig(cfg)
	opts.Forwarder = true
	bus, err := events.New(pool.DB(), opts, log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	i.onClose(func() { _ = bus.Close() })
	i.bus = bus
	i.checks.EventBus = bus

	if err := bus.StartForwarder(ctx); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}
	return nil
}
