package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/ghuser/itemchain/pkg/database"
	"github.com/ghuser/itemchain/pkg/events"
	itemdomain "github.com/ghuser/itemchain/services/item/domain"
	domainevents "github.com/ghuser/itemchain/services/item/domain/events"
	"github.com/ghuser/itemchain/services/item/domain/models"
	"github.com/ghuser/itemchain/services/item/domain/repositories"
	"github.com/ghuser/itemchain/services/item/infrastructure/persistence/postgres/db"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection pool
// and event bus. The bus publishes SupplyChainSetupEvents inside the same
// transaction as the state change; a nil bus only records them in item_events.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// RunInTx opens one SQL transaction for fn. Row locks taken through tx are
// held until commit or rollback.
func (r *ItemRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repositories.ItemTx) error) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, &itemTx{q: db.New(tx), tx: tx, bus: r.bus})
	})
}

// GetByIndex returns ErrOutOfRange if no item has the given index.
func (r *ItemRepository) GetByIndex(ctx context.Context, index int64) (*models.Item, error) {
	if index < 0 {
		return nil, itemdomain.ErrOutOfRange
	}
	row, err := db.New(r.db.DB()).GetItemByIndex(ctx, index)
	if err != nil {
		return nil, mapItemErr(err)
	}
	return rowToItem(row), nil
}

// GetEscrow returns ErrEscrowNotFound if no escrow has the given ID.
func (r *ItemRepository) GetEscrow(ctx context.Context, id uuid.UUID) (*models.Escrow, error) {
	row, err := db.New(r.db.DB()).GetEscrowByID(ctx, id)
	if err != nil {
		return nil, mapEscrowErr(err)
	}
	return rowToEscrow(row), nil
}

// Count reads the registry counter, which equals the number of items ever created.
func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	n, err := db.New(r.db.DB()).CountItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// List retrieves a page of items in index order plus the total count.
func (r *ItemRepository) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, int64, error) {
	q := db.New(r.db.DB())

	params := db.ListItemsParams{Offset: int64(max(opts.Offset, 0))}
	if opts.Limit > 0 {
		params.Limit = sql.NullInt64{Int64: int64(opts.Limit), Valid: true}
	}
	rows, err := q.ListItems(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}

	total, err := q.CountItems(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, total, nil
}

// Events returns the item's recorded lifecycle events in emission order.
func (r *ItemRepository) Events(ctx context.Context, index int64) ([]domainevents.SupplyChainSetupEvent, error) {
	if _, err := r.GetByIndex(ctx, index); err != nil {
		return nil, err
	}
	rows, err := db.New(r.db.DB()).ListItemEvents(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("query item events: %w", err)
	}
	out := make([]domainevents.SupplyChainSetupEvent, len(rows))
	for i, row := range rows {
		out[i] = domainevents.SupplyChainSetupEvent{
			EventID:    row.EventID,
			Version:    int(row.Version),
			ItemIndex:  row.ItemIndex,
			State:      int(row.State),
			EscrowID:   row.EscrowID,
			OccurredAt: row.OccurredAt.UTC(),
		}
	}
	return out, nil
}

// itemTx is the transactional view handed to RunInTx callbacks.
type itemTx struct {
	q   *db.Queries
	tx  *sql.Tx
	bus *events.EventBus
}

func (t *itemTx) Append(ctx context.Context, item *models.Item, escrow *models.Escrow) error {
	// The counter row update locks the registry, so concurrent appends
	// receive consecutive indices.
	index, err := t.q.NextItemIndex(ctx)
	if err != nil {
		return fmt.Errorf("allocate item index: %w", err)
	}

	if err := t.q.InsertItem(ctx, db.InsertItemParams{
		ItemIndex:  index,
		Identifier: item.Identifier,
		Price:      item.Price.Int64(),
		State:      int16(item.State),
		EscrowID:   item.EscrowID,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	if err := t.q.InsertEscrow(ctx, db.InsertEscrowParams{
		ID:             escrow.ID,
		ItemIndex:      index,
		ExpectedPrice:  escrow.ExpectedPrice.Int64(),
		AmountReceived: escrow.AmountReceived,
	}); err != nil {
		if database.HasCode(err, database.CodeUniqueViolation) {
			return fmt.Errorf("escrow %s already registered: %w", escrow.ID, err)
		}
		return fmt.Errorf("insert escrow: %w", err)
	}

	item.Index = index
	escrow.ItemIndex = index
	return nil
}

func (t *itemTx) GetForUpdate(ctx context.Context, index int64) (*models.Item, error) {
	if index < 0 {
		return nil, itemdomain.ErrOutOfRange
	}
	row, err := t.q.GetItemByIndexForUpdate(ctx, index)
	if err != nil {
		return nil, mapItemErr(err)
	}
	return rowToItem(row), nil
}

func (t *itemTx) GetEscrowForUpdate(ctx context.Context, id uuid.UUID) (*models.Escrow, error) {
	row, err := t.q.GetEscrowByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapEscrowErr(err)
	}
	return rowToEscrow(row), nil
}

func (t *itemTx) Advance(ctx context.Context, item *models.Item, escrow *models.Escrow) (domainevents.SupplyChainSetupEvent, error) {
	if item.EscrowID != escrow.ID {
		return domainevents.SupplyChainSetupEvent{}, fmt.Errorf("escrow %s does not belong to item %d", escrow.ID, item.Index)
	}

	if err := t.q.UpdateItemState(ctx, db.UpdateItemStateParams{
		ItemIndex: item.Index,
		State:     int16(item.State),
		UpdatedAt: item.UpdatedAt,
	}); err != nil {
		return domainevents.SupplyChainSetupEvent{}, fmt.Errorf("update item state: %w", err)
	}
	if err := t.q.UpdateEscrowAmount(ctx, db.UpdateEscrowAmountParams{
		ID:             escrow.ID,
		AmountReceived: escrow.AmountReceived,
	}); err != nil {
		return domainevents.SupplyChainSetupEvent{}, fmt.Errorf("update escrow amount: %w", err)
	}

	evt := domainevents.NewSupplyChainSetupEvent(item.Index, int(item.State), escrow.ID, item.UpdatedAt)
	if err := t.q.InsertItemEvent(ctx, db.InsertItemEventParams{
		EventID:    evt.EventID,
		ItemIndex:  evt.ItemIndex,
		Version:    int32(evt.Version),
		State:      int16(evt.State),
		EscrowID:   evt.EscrowID,
		OccurredAt: evt.OccurredAt,
	}); err != nil {
		return domainevents.SupplyChainSetupEvent{}, fmt.Errorf("record item event: %w", err)
	}

	if t.bus != nil {
		if err := t.publish(ctx, evt); err != nil {
			return domainevents.SupplyChainSetupEvent{}, fmt.Errorf("publish supply chain setup: %w", err)
		}
	}
	return evt, nil
}

func (t *itemTx) publish(ctx context.Context, evt domainevents.SupplyChainSetupEvent) error {
	msg, err := events.NewJSONMessage(ctx, evt, map[string]string{
		"event_id":      evt.EventID.String(),
		"event_version": strconv.Itoa(evt.Version),
	})
	if err != nil {
		return err
	}
	return t.bus.PublishTx(t.tx, domainevents.TopicSupplyChainSetup, msg)
}

func mapItemErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return itemdomain.ErrOutOfRange
	}
	return fmt.Errorf("query item: %w", err)
}

func mapEscrowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return itemdomain.ErrEscrowNotFound
	}
	return fmt.Errorf("query escrow: %w", err)
}

// rowToItem maps a db.ItemItem to a domain models.Item.
func rowToItem(row db.ItemItem) *models.Item {
	return &models.Item{
		Index:      row.ItemIndex,
		Identifier: row.Identifier,
		Price:      models.Price(row.Price),
		State:      models.State(row.State),
		EscrowID:   row.EscrowID,
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}

func rowToEscrow(row db.ItemEscrow) *models.Escrow {
	return &models.Escrow{
		ID:             row.ID,
		ItemIndex:      row.ItemIndex,
		ExpectedPrice:  models.Price(row.ExpectedPrice),
		AmountReceived: row.AmountReceived,
	}
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)
