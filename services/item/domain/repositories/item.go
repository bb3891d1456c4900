package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/itemchain/services/item/domain/events"
	"github.com/ghuser/itemchain/services/item/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return; <= 0 means no limit
	Offset int // Number of records to skip
}

// ItemRepository is the persistence interface for the Item and Escrow aggregates.
// The domain layer owns this interface; infrastructure implements it.
type ItemRepository interface {
	// RunInTx executes fn with exclusive access to the rows it touches. All
	// writes made through tx commit together when fn returns nil and are
	// discarded otherwise. Events appended through tx become visible only
	// after commit.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx ItemTx) error) error

	// GetByIndex returns ErrOutOfRange if no item has the given index.
	GetByIndex(ctx context.Context, index int64) (*models.Item, error)

	// GetEscrow returns ErrEscrowNotFound if no escrow has the given ID.
	GetEscrow(ctx context.Context, id uuid.UUID) (*models.Escrow, error)

	// Count returns the number of items ever created.
	Count(ctx context.Context) (int64, error)

	// List retrieves items in index order plus the total count (ignoring pagination).
	List(ctx context.Context, opts QueryOpts) ([]*models.Item, int64, error)

	// Events returns the lifecycle events of one item in emission order.
	Events(ctx context.Context, index int64) ([]events.SupplyChainSetupEvent, error)
}

// ItemTx is the transactional view handed to RunInTx callbacks.
type ItemTx interface {
	// Append stores a new item and its escrow at the next index and sets
	// item.Index and escrow.ItemIndex.
	Append(ctx context.Context, item *models.Item, escrow *models.Escrow) error

	// GetForUpdate locks and returns the item. Returns ErrOutOfRange if absent.
	GetForUpdate(ctx context.Context, index int64) (*models.Item, error)

	// GetEscrowForUpdate locks and returns the escrow. Returns ErrEscrowNotFound if absent.
	GetEscrowForUpdate(ctx context.Context, id uuid.UUID) (*models.Escrow, error)

	// Advance persists item's new state and escrow's amount, records the
	// SupplyChainSetupEvent for the transition and publishes it.
	Advance(ctx context.Context, item *models.Item, escrow *models.Escrow) (events.SupplyChainSetupEvent, error)
}
