package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/itemchain/pkg/app"
	"github.com/ghuser/itemchain/pkg/cache"
	"github.com/ghuser/itemchain/pkg/config"
	"github.com/ghuser/itemchain/pkg/database"
	"github.com/ghuser/itemchain/pkg/events"
	"github.com/ghuser/itemchain/pkg/logger"
	"github.com/ghuser/itemchain/pkg/telemetry"
	"github.com/ghuser/itemchain/pkg/workflows"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
	itemEvents "github.com/ghuser/itemchain/services/item/domain/events"
)

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

	log := logger.New(cfg).With("process", "worker")
	if err := run(cfg, log); err != nil {
		log.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

// run consumes the item event stream until SIGINT or SIGTERM.
func run(cfg *config.Config, log logger.Logger) error {
	if cfg.UsesMemoryBackend() {
		return errors.New("the worker consumes the postgres event stream; STORAGE_BACKEND=memory has none")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close() //nolint:errcheck

	// Closed before the pool: Close waits for in-flight handlers.
	eventBus, err := events.New(pool.DB(), events.OptionsFromConfig(cfg), log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(ctx, cache.OptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck

	var temporalClient *workflows.TemporalClient
	if cfg.TemporalEnabled {
		temporalClient, err = workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, cfg.TemporalTaskQueue, log)
		if err != nil {
			return fmt.Errorf("connect temporal: %w", err)
		}
		defer temporalClient.Close()
	}

	a := &app.Application{
		Config:         cfg,
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
	}
	if err := registerSubscribers(ctx, a); err != nil {
		return fmt.Errorf("register subscribers: %w", err)
	}

	<-ctx.Done()
	log.Info("shutting down worker...")
	return nil
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	svcs := appsvcs.New(a)

	var notifier appsvcs.FulfilmentNotifier
	if a.TemporalClient != nil {
		notifier = workflows.NewFulfilment(a.TemporalClient)
	}

	topic := itemEvents.TopicSupplyChainSetup
	errCh, err := a.EventBus.Subscribe(ctx, topic, handleSupplyChainSetup(a, svcs.Item, notifier))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			telemetry.CaptureError(ctx, err, "topic", topic)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{topic})
	return nil
}

// itemRefresher reloads an item into the read-model cache.
type itemRefresher interface {
	RefreshCache(ctx context.Context, index int64) error
}

// handleSupplyChainSetup returns a handler for item.supply_chain_setup events.
// Handlers must be idempotent: a failure is retried with backoff and then
// moved to the poison topic.
// The cache is refreshed from the repository rather than the event so an
// out-of-order redelivery cannot roll the read model back. A nil notifier
// skips the fulfilment hook.
func handleSupplyChainSetup(a *app.Application, items itemRefresher, notifier appsvcs.FulfilmentNotifier) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.DecodeJSON[itemEvents.SupplyChainSetupEvent](msg)
		if err != nil {
			// A malformed payload never decodes; retrying cannot help.
			a.Logger.ErrorContext(ctx, "dropping undecodable supply chain event", "message_id", msg.UUID, "error", err)
			return nil
		}

		if err := items.RefreshCache(ctx, evt.ItemIndex); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache refresh failed for item.supply_chain_setup",
				"item_index", evt.ItemIndex, "error", err)
		}

		if notifier != nil {
			if err := appsvcs.NotifyFulfilment(ctx, notifier, evt); err != nil {
				return fmt.Errorf("notify fulfilment for item %d: %w", evt.ItemIndex, err)
			}
		}

		a.Logger.InfoContext(ctx, "supply chain event processed",
			"item_index", evt.ItemIndex, "state", evt.State, "event_id", evt.EventID)
		return nil
	}
}
