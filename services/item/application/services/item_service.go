package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/itemchain/pkg/cache"
	"github.com/ghuser/itemchain/pkg/clock"
	"github.com/ghuser/itemchain/pkg/logger"
	itemdomain "github.com/ghuser/itemchain/services/item/domain"
	domainevents "github.com/ghuser/itemchain/services/item/domain/events"
	"github.com/ghuser/itemchain/services/item/domain/models"
	"github.com/ghuser/itemchain/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/itemchain/services/item/domain/services"
	"github.com/ghuser/itemchain/services/item/metrics"
)

// Page size bounds applied by List.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Operation names used for spans, metrics and logs.
const (
	opCreate   = "create"
	opPayment  = "trigger_payment"
	opDelivery = "trigger_delivery"
	opDeposit  = "deposit"
)

// ItemService is the item registry. It creates items with their escrows and
// drives every lifecycle transition inside a single repository transaction.
// Event publishing is handled by the repository layer (outbox pattern).
// Reads are served from Redis cache when available.
type ItemService struct {
	repo    repositories.ItemRepository
	owner   models.Identity
	cache   *pkgcache.ItemCache
	clock   clock.Clock
	log     logger.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures optional ItemService collaborators.
type Option func(*ItemService)

// WithCache enables the Redis read-through cache.
func WithCache(c *pkgcache.ItemCache) Option {
	return func(s *ItemService) { s.cache = c }
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(s *ItemService) { s.clock = c }
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *ItemService) { s.log = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ItemService) { s.metrics = m }
}

// NewItemService returns an ItemService whose delivery authority is owner.
// The owner is fixed for the lifetime of the service.
func NewItemService(repo repositories.ItemRepository, owner models.Identity, opts ...Option) *ItemService {
	s := &ItemService{
		repo:   repo,
		owner:  owner,
		clock:  clock.NewSystem(),
		log:    logger.Discard(),
		tracer: otel.Tracer("itemchain/item"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Owner returns the identity allowed to trigger delivery.
func (s *ItemService) Owner() models.Identity {
	return s.owner
}

// Create registers a new item in state Created together with a fresh escrow
// expecting price. Creation emits no event.
func (s *ItemService) Create(ctx context.Context, identifier string, price int64) (*models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "item.create")
	defer span.End()
	defer s.observe(opCreate, time.Now())

	p, err := models.NewPrice(price)
	if err != nil {
		return nil, s.reject(ctx, span, opCreate, fmt.Errorf("%w: %w", itemdomain.ErrInvalidPrice, err))
	}

	escrow := models.NewEscrow(p)
	item, err := models.NewItem(identifier, p, escrow.ID, s.clock.Now())
	if err != nil {
		return nil, s.reject(ctx, span, opCreate, fmt.Errorf("create item: %w", err))
	}
	if err := domainsvcs.ValidateItemForCreation(item, escrow); err != nil {
		return nil, s.reject(ctx, span, opCreate, err)
	}

	err = s.repo.RunInTx(ctx, func(ctx context.Context, tx repositories.ItemTx) error {
		return tx.Append(ctx, item, escrow)
	})
	if err != nil {
		return nil, s.reject(ctx, span, opCreate, fmt.Errorf("save item: %w", err))
	}

	span.SetAttributes(attribute.Int64("item.index", item.Index))
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	s.log.InfoContext(ctx, "item created",
		"item_index", item.Index, "price", item.Price.Int64(), "escrow_id", item.EscrowID)
	s.writeThrough(ctx, item)
	return item, nil
}

// TriggerPayment pays for the item at index with value through the registry.
// Checks run in order: the item exists, value equals the price, the item is
// Created, and finally the escrow re-validates the value on its own.
// On success the item is Paid, the escrow holds value, and one
// SupplyChainSetupEvent with state Paid is emitted. Any failure leaves both
// item and escrow untouched.
func (s *ItemService) TriggerPayment(ctx context.Context, index, value int64, caller models.Identity) (*models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "item.trigger_payment", trace.WithAttributes(
		attribute.Int64("item.index", index),
		attribute.Int64("payment.value", value),
	))
	defer span.End()
	defer s.observe(opPayment, time.Now())

	var (
		paid *models.Item
		evt  domainevents.SupplyChainSetupEvent
	)
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx repositories.ItemTx) error {
		item, err := tx.GetForUpdate(ctx, index)
		if err != nil {
			return err
		}
		escrow, err := tx.GetEscrowForUpdate(ctx, item.EscrowID)
		if err != nil {
			return err
		}
		if err := domainsvcs.ApplyPayment(item, escrow, value, s.clock.Now()); err != nil {
			return err
		}
		if evt, err = tx.Advance(ctx, item, escrow); err != nil {
			return err
		}
		paid = item
		return nil
	})
	if err != nil {
		return nil, s.reject(ctx, span, opPayment, err, "item_index", index, "caller", caller.String())
	}

	s.advanced(ctx, paid, evt, caller)
	return paid, nil
}

// DepositToEscrow transfers value straight into the escrow with the given ID.
// The escrow validates the value first; once it accepts, the owning item
// advances to Paid and emits the same event a registry payment would.
func (s *ItemService) DepositToEscrow(ctx context.Context, escrowID uuid.UUID, value int64, caller models.Identity) (*models.Escrow, error) {
	ctx, span := s.tracer.Start(ctx, "item.deposit", trace.WithAttributes(
		attribute.String("escrow.id", escrowID.String()),
		attribute.Int64("payment.value", value),
	))
	defer span.End()
	defer s.observe(opDeposit, time.Now())

	var (
		settled *models.Escrow
		paid    *models.Item
		evt     domainevents.SupplyChainSetupEvent
	)
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx repositories.ItemTx) error {
		escrow, err := tx.GetEscrowForUpdate(ctx, escrowID)
		if err != nil {
			return err
		}
		item, err := tx.GetForUpdate(ctx, escrow.ItemIndex)
		if err != nil {
			return err
		}
		if err := domainsvcs.ApplyDeposit(item, escrow, value, s.clock.Now()); err != nil {
			return err
		}
		if evt, err = tx.Advance(ctx, item, escrow); err != nil {
			return err
		}
		settled, paid = escrow, item
		return nil
	})
	if err != nil {
		return nil, s.reject(ctx, span, opDeposit, err, "escrow_id", escrowID, "caller", caller.String())
	}

	s.advanced(ctx, paid, evt, caller)
	return settled, nil
}

// TriggerDelivery marks the item at index Delivered. Only the registry owner
// may call it, and only once the item is Paid. Authority is checked before
// state. Emits one SupplyChainSetupEvent with state Delivered.
func (s *ItemService) TriggerDelivery(ctx context.Context, index int64, caller models.Identity) (*models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "item.trigger_delivery", trace.WithAttributes(
		attribute.Int64("item.index", index),
	))
	defer span.End()
	defer s.observe(opDelivery, time.Now())

	var (
		delivered *models.Item
		evt       domainevents.SupplyChainSetupEvent
	)
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx repositories.ItemTx) error {
		item, err := tx.GetForUpdate(ctx, index)
		if err != nil {
			return err
		}
		if err := domainsvcs.ApplyDelivery(item, s.owner, caller, s.clock.Now()); err != nil {
			return err
		}
		escrow, err := tx.GetEscrowForUpdate(ctx, item.EscrowID)
		if err != nil {
			return err
		}
		if evt, err = tx.Advance(ctx, item, escrow); err != nil {
			return err
		}
		delivered = item
		return nil
	})
	if err != nil {
		return nil, s.reject(ctx, span, opDelivery, err, "item_index", index, "caller", caller.String())
	}

	s.advanced(ctx, delivered, evt, caller)
	return delivered, nil
}

// GetByIndex retrieves an Item using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query the repository.
//  3. Warm the cache with the repository result before returning. The cache
//     drops the write if a concurrent transition already stored a later state.
func (s *ItemService) GetByIndex(ctx context.Context, index int64) (*models.Item, error) {
	if s.cache != nil && index >= 0 {
		cached, err := s.cache.Get(ctx, index)
		if err == nil {
			if item, ok := fromCache(cached); ok {
				return item, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "item cache read failed", "item_index", index, "error", err)
		}
	}

	item, err := s.repo.GetByIndex(ctx, index)
	if err != nil {
		return nil, err
	}

	s.writeThrough(ctx, item)
	return item, nil
}

// GetEscrow returns the escrow with the given ID.
func (s *ItemService) GetEscrow(ctx context.Context, id uuid.UUID) (*models.Escrow, error) {
	return s.repo.GetEscrow(ctx, id)
}

// Count returns the number of items ever created.
func (s *ItemService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// List returns a page of items in index order plus the total count.
// A non-positive limit falls back to DefaultPageSize; limits above
// MaxPageSize are clamped.
func (s *ItemService) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, int64, error) {
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultPageSize
	case opts.Limit > MaxPageSize:
		opts.Limit = MaxPageSize
	}
	opts.Offset = max(opts.Offset, 0)

	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// Events returns the item's lifecycle events in emission order.
func (s *ItemService) Events(ctx context.Context, index int64) ([]domainevents.SupplyChainSetupEvent, error) {
	return s.repo.Events(ctx, index)
}

// RefreshCache reloads the item at index from the repository into the cache.
// It is a no-op when no cache is configured.
func (s *ItemService) RefreshCache(ctx context.Context, index int64) error {
	if s.cache == nil {
		return nil
	}
	item, err := s.repo.GetByIndex(ctx, index)
	if err != nil {
		return err
	}
	_, err = s.cache.Set(ctx, toCache(item))
	return err
}

func (s *ItemService) advanced(ctx context.Context, item *models.Item, evt domainevents.SupplyChainSetupEvent, caller models.Identity) {
	if s.metrics != nil {
		s.metrics.IncrementTransition(item.State.String())
	}
	s.log.InfoContext(ctx, "item advanced",
		"item_index", item.Index,
		"state", item.State.String(),
		"escrow_id", item.EscrowID,
		"event_id", evt.EventID,
		"caller", caller.String(),
	)
	s.writeThrough(ctx, item)
}

// reject records a failed operation and returns err unchanged.
func (s *ItemService) reject(ctx context.Context, span trace.Span, op string, err error, attrs ...any) error {
	kind := itemdomain.Kind(err)
	if s.metrics != nil {
		s.metrics.IncrementRejection(op, kind)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)

	args := append([]any{"operation", op, "kind", kind, "error", err}, attrs...)
	if _, ok := itemdomain.Reason(err); ok {
		s.log.InfoContext(ctx, "item operation rejected", args...)
	} else {
		s.log.ErrorContext(ctx, "item operation failed", args...)
	}
	return err
}

func (s *ItemService) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

// writeThrough stores item in the cache. Cache writes are best-effort.
func (s *ItemService) writeThrough(ctx context.Context, item *models.Item) {
	if s.cache == nil {
		return
	}
	stored, err := s.cache.Set(ctx, toCache(item))
	if err != nil {
		s.log.WarnContext(ctx, "item cache write failed", "item_index", item.Index, "error", err)
		return
	}
	if !stored {
		s.log.DebugContext(ctx, "stale item cache write skipped", "item_index", item.Index, "state", item.State.String())
	}
}

func toCache(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		Index:      item.Index,
		Identifier: item.Identifier,
		Price:      item.Price.Int64(),
		State:      int(item.State),
		EscrowID:   item.EscrowID,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

// fromCache converts a cache entry back into an Item. Entries with an unknown
// state are ignored so the repository answers instead.
func fromCache(c *pkgcache.CachedItem) (*models.Item, bool) {
	state, err := models.ParseState(c.State)
	if err != nil {
		return nil, false
	}
	return &models.Item{
		Index:      c.Index,
		Identifier: c.Identifier,
		Price:      models.Price(c.Price),
		State:      state,
		EscrowID:   c.EscrowID,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}, true
}
