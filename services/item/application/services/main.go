package services

import (
	"context"

	"github.com/ghuser/itemchain/pkg/app"
	"github.com/ghuser/itemchain/pkg/cache"
	"github.com/ghuser/itemchain/pkg/workflows"
	domainevents "github.com/ghuser/itemchain/services/item/domain/events"
	"github.com/ghuser/itemchain/services/item/domain/models"
	"github.com/ghuser/itemchain/services/item/domain/repositories"
	"github.com/ghuser/itemchain/services/item/infrastructure/persistence/memory"
	"github.com/ghuser/itemchain/services/item/infrastructure/persistence/postgres"
	"github.com/ghuser/itemchain/services/item/metrics"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the Application container.
// It registers the item metrics with the default Prometheus registry, so call it once per process.
func New(a *app.Application) *Services {
	opts := []Option{
		WithLogger(a.Logger),
		WithMetrics(metrics.New()),
	}
	if a.Redis != nil {
		opts = append(opts, WithCache(cache.NewItemCache(a.Redis)))
	}
	return &Services{
		Item: NewItemService(newRepository(a), models.Identity(a.Config.RegistryOwner), opts...),
	}
}

// newRepository picks the storage backend named by the config. The memory
// backend has no event bus, so its committed events go to the log and, when
// enabled, straight to the fulfilment hook.
func newRepository(a *app.Application) repositories.ItemRepository {
	if !a.Config.UsesMemoryBackend() {
		return postgres.NewItemRepository(a.Db, a.EventBus)
	}

	var fulfilment *workflows.Fulfilment
	if a.TemporalClient != nil {
		fulfilment = workflows.NewFulfilment(a.TemporalClient)
	}
	return memory.NewItemRepository(func(ctx context.Context, evt domainevents.SupplyChainSetupEvent) {
		a.Logger.InfoContext(ctx, "supply chain setup",
			"item_index", evt.ItemIndex, "state", evt.State, "escrow_id", evt.EscrowID)
		if fulfilment == nil {
			return
		}
		if err := NotifyFulfilment(ctx, fulfilment, evt); err != nil {
			a.Logger.ErrorContext(ctx, "fulfilment notification failed",
				"item_index", evt.ItemIndex, "error", err)
		}
	})
}
