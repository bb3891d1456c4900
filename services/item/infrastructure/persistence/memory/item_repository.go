// Package memory provides an in-process ItemRepository. Every RunInTx call
// holds the repository lock for its whole duration and stages writes in a
// scratch view that is committed only when the callback succeeds.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/itemchain/services/item/domain"
	"github.com/ghuser/itemchain/services/item/domain/events"
	"github.com/ghuser/itemchain/services/item/domain/models"
	"github.com/ghuser/itemchain/services/item/domain/repositories"
)

// Listener observes committed lifecycle events.
type Listener func(ctx context.Context, evt events.SupplyChainSetupEvent)

// ItemRepository implements repositories.ItemRepository in memory.
// RunInTx is not re-entrant: calling it from inside a callback or a listener
// deadlocks.
type ItemRepository struct {
	mu        sync.Mutex
	items     []models.Item
	escrows   map[uuid.UUID]models.Escrow
	log       map[int64][]events.SupplyChainSetupEvent
	committed uint64 // guarded by mu

	// Each commit takes a ticket under mu and dispatches its events once
	// every earlier ticket has been dispatched.
	dispatchMu sync.Mutex
	turn       *sync.Cond
	dispatched uint64 // guarded by dispatchMu
	listeners  []Listener
}

// NewItemRepository returns an empty repository. Listeners are called in
// order, after commit, with every event the transaction produced. Events of
// different transactions reach listeners in commit order.
func NewItemRepository(listeners ...Listener) *ItemRepository {
	r := &ItemRepository{
		escrows:   make(map[uuid.UUID]models.Escrow),
		log:       make(map[int64][]events.SupplyChainSetupEvent),
		listeners: listeners,
	}
	r.turn = sync.NewCond(&r.dispatchMu)
	return r
}

// RunInTx runs fn against a staged view and commits it on success.
func (r *ItemRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repositories.ItemTx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	r.mu.Lock()
	tx := &itemTx{
		repo:    r,
		updated: make(map[int64]models.Item),
		escrows: make(map[uuid.UUID]models.Escrow),
	}
	if err := fn(ctx, tx); err != nil {
		r.mu.Unlock()
		return err
	}
	pending := tx.commit()
	ticket := r.committed
	r.committed++
	r.mu.Unlock()

	r.dispatch(ctx, ticket, pending)
	return nil
}

// dispatch waits until every earlier commit has been announced, then calls
// the listeners with pending.
func (r *ItemRepository) dispatch(ctx context.Context, ticket uint64, pending []events.SupplyChainSetupEvent) {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	for r.dispatched != ticket {
		r.turn.Wait()
	}
	defer func() {
		r.dispatched++
		r.turn.Broadcast()
	}()

	for _, evt := range pending {
		for _, l := range r.listeners {
			l(ctx, evt)
		}
	}
}

// GetByIndex returns a copy of the item at index.
func (r *ItemRepository) GetByIndex(ctx context.Context, index int64) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= int64(len(r.items)) {
		return nil, itemdomain.ErrOutOfRange
	}
	item := r.items[index]
	return &item, nil
}

// GetEscrow returns a copy of the escrow with the given ID.
func (r *ItemRepository) GetEscrow(ctx context.Context, id uuid.UUID) (*models.Escrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	escrow, ok := r.escrows[id]
	if !ok {
		return nil, itemdomain.ErrEscrowNotFound
	}
	return &escrow, nil
}

// Count returns the number of items ever created.
func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

// List returns a page of items in index order and the total count.
func (r *ItemRepository) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := len(r.items)
	start := min(max(opts.Offset, 0), total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}

	out := make([]*models.Item, 0, end-start)
	for i := start; i < end; i++ {
		item := r.items[i]
		out = append(out, &item)
	}
	return out, int64(total), nil
}

// Events returns a copy of the item's event log.
func (r *ItemRepository) Events(ctx context.Context, index int64) ([]events.SupplyChainSetupEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= int64(len(r.items)) {
		return nil, itemdomain.ErrOutOfRange
	}
	return append([]events.SupplyChainSetupEvent(nil), r.log[index]...), nil
}

// itemTx stages writes on top of the committed state. The repository lock is
// held by RunInTx while an itemTx is live.
type itemTx struct {
	repo     *ItemRepository
	appended []models.Item
	updated  map[int64]models.Item
	escrows  map[uuid.UUID]models.Escrow
	pending  []events.SupplyChainSetupEvent
}

func (tx *itemTx) Append(ctx context.Context, item *models.Item, escrow *models.Escrow) error {
	if _, exists := tx.lookupEscrow(escrow.ID); exists {
		return fmt.Errorf("escrow %s already registered", escrow.ID)
	}
	index := int64(len(tx.repo.items) + len(tx.appended))
	item.Index = index
	escrow.ItemIndex = index
	tx.appended = append(tx.appended, *item)
	tx.escrows[escrow.ID] = *escrow
	return nil
}

func (tx *itemTx) GetForUpdate(ctx context.Context, index int64) (*models.Item, error) {
	item, ok := tx.lookupItem(index)
	if !ok {
		return nil, itemdomain.ErrOutOfRange
	}
	return &item, nil
}

func (tx *itemTx) GetEscrowForUpdate(ctx context.Context, id uuid.UUID) (*models.Escrow, error) {
	escrow, ok := tx.lookupEscrow(id)
	if !ok {
		return nil, itemdomain.ErrEscrowNotFound
	}
	return &escrow, nil
}

func (tx *itemTx) Advance(ctx context.Context, item *models.Item, escrow *models.Escrow) (events.SupplyChainSetupEvent, error) {
	current, ok := tx.lookupItem(item.Index)
	if !ok {
		return events.SupplyChainSetupEvent{}, itemdomain.ErrOutOfRange
	}
	if current.EscrowID != escrow.ID || item.EscrowID != escrow.ID {
		return events.SupplyChainSetupEvent{}, fmt.Errorf("escrow %s does not belong to item %d", escrow.ID, item.Index)
	}

	if base := int64(len(tx.repo.items)); item.Index >= base {
		tx.appended[item.Index-base] = *item
	} else {
		tx.updated[item.Index] = *item
	}
	tx.escrows[escrow.ID] = *escrow

	evt := events.NewSupplyChainSetupEvent(item.Index, int(item.State), escrow.ID, item.UpdatedAt)
	tx.pending = append(tx.pending, evt)
	return evt, nil
}

func (tx *itemTx) lookupItem(index int64) (models.Item, bool) {
	if item, ok := tx.updated[index]; ok {
		return item, true
	}
	base := int64(len(tx.repo.items))
	switch {
	case index < 0:
		return models.Item{}, false
	case index < base:
		return tx.repo.items[index], true
	case index < base+int64(len(tx.appended)):
		return tx.appended[index-base], true
	default:
		return models.Item{}, false
	}
}

func (tx *itemTx) lookupEscrow(id uuid.UUID) (models.Escrow, bool) {
	if escrow, ok := tx.escrows[id]; ok {
		return escrow, true
	}
	escrow, ok := tx.repo.escrows[id]
	return escrow, ok
}

// commit applies the staged writes and returns the events to announce.
func (tx *itemTx) commit() []events.SupplyChainSetupEvent {
	r := tx.repo
	for index, item := range tx.updated {
		r.items[index] = item
	}
	r.items = append(r.items, tx.appended...)
	for id, escrow := range tx.escrows {
		r.escrows[id] = escrow
	}
	for _, evt := range tx.pending {
		r.log[evt.ItemIndex] = append(r.log[evt.ItemIndex], evt)
	}
	return tx.pending
}

// Compile-time assertion that ItemRepository implements repositories.ItemRepository.
var _ repositories.ItemRepository = (*ItemRepository)(nil)
