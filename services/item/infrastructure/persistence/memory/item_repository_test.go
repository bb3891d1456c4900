package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	itemdomain "github.com/ghuser/itemchain/services/item/domain"
	"github.com/ghuser/itemchain/services/item/domain/events"
	"github.com/ghuser/itemchain/services/item/domain/models"
	"github.com/ghuser/itemchain/services/item/domain/repositories"
)

type ItemRepositorySuite struct {
	suite.Suite
	repo      *ItemRepository
	ctx       context.Context
	mu        sync.Mutex
	published []events.SupplyChainSetupEvent
}

func (s *ItemRepositorySuite) SetupTest() {
	s.published = nil
	s.repo = NewItemRepository(func(_ context.Context, evt events.SupplyChainSetupEvent) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.published = append(s.published, evt)
	})
	s.ctx = context.Background()
}

func TestItemRepositorySuite(t *testing.T) {
	suite.Run(t, new(ItemRepositorySuite))
}

func (s *ItemRepositorySuite) appendItem(identifier string, price models.Price) *models.Item {
	escrow := models.NewEscrow(price)
	item, err := models.NewItem(identifier, price, escrow.ID, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.repo.RunInTx(s.ctx, func(ctx context.Context, tx repositories.ItemTx) error {
		return tx.Append(ctx, item, escrow)
	}))
	return item
}

// pay runs the payment steps for index inside one transaction.
func (s *ItemRepositorySuite) pay(index int64, value int64) error {
	return s.repo.RunInTx(s.ctx, func(ctx context.Context, tx repositories.ItemTx) error {
		item, err := tx.GetForUpdate(ctx, index)
		if err != nil {
			return err
		}
		escrow, err := tx.GetEscrowForUpdate(ctx, item.EscrowID)
		if err != nil {
			return err
		}
		if err := escrow.Accept(value); err != nil {
			return err
		}
		if err := item.AdvanceTo(models.StatePaid, time.Now()); err != nil {
			return err
		}
		_, err = tx.Advance(ctx, item, escrow)
		return err
	})
}

// TestAppend verifies index allocation and the escrow back-reference.
func (s *ItemRepositorySuite) TestAppend() {
	first := s.appendItem("a", 100)
	second := s.appendItem("b", 200)

	s.Equal(int64(0), first.Index)
	s.Equal(int64(1), second.Index)

	count, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	escrow, err := s.repo.GetEscrow(s.ctx, second.EscrowID)
	s.Require().NoError(err)
	s.Equal(int64(1), escrow.ItemIndex)
	s.Equal(models.Price(200), escrow.ExpectedPrice)
	s.False(escrow.IsSettled())
}

// TestAppendManyInOneTransaction verifies staged appends see each other.
func (s *ItemRepositorySuite) TestAppendManyInOneTransaction() {
	var indices []int64
	err := s.repo.RunInTx(s.ctx, func(ctx context.Context, tx repositories.ItemTx) error {
		for range 3 {
			escrow := models.NewEscrow(5)
			item, _ := models.NewItem("batch", 5, escrow.ID, time.Now())
			if err := tx.Append(ctx, item, escrow); err != nil {
				return err
			}
			indices = append(indices, item.Index)
		}
		staged, err := tx.GetForUpdate(ctx, 2)
		if err != nil {
			return err
		}
		s.Equal("batch", staged.Identifier)
		return nil
	})
	s.Require().NoError(err)
	s.Equal([]int64{0, 1, 2}, indices)
}

// TestLookups verifies not-found errors and copy semantics.
func (s *ItemRepositorySuite) TestLookups() {
	created := s.appendItem("widget", 10)

	s.Run("returns ErrOutOfRange for unknown index", func() {
		_, err := s.repo.GetByIndex(s.ctx, 5)
		s.Require().ErrorIs(err, itemdomain.ErrOutOfRange)

		_, err = s.repo.GetByIndex(s.ctx, -1)
		s.Require().ErrorIs(err, itemdomain.ErrOutOfRange)
	})

	s.Run("returns ErrEscrowNotFound for unknown escrow", func() {
		_, err := s.repo.GetEscrow(s.ctx, uuid.New())
		s.Require().ErrorIs(err, itemdomain.ErrEscrowNotFound)
	})

	s.Run("returned items are copies", func() {
		got, err := s.repo.GetByIndex(s.ctx, created.Index)
		s.Require().NoError(err)
		got.State = models.StateDelivered

		again, err := s.repo.GetByIndex(s.ctx, created.Index)
		s.Require().NoError(err)
		s.Equal(models.StateCreated, again.State)
	})

	s.Run("events for unknown item", func() {
		_, err := s.repo.Events(s.ctx, 42)
		s.Require().ErrorIs(err, itemdomain.ErrOutOfRange)
	})
}

// TestAdvance verifies commit, the event log, and listener notification.
func (s *ItemRepositorySuite) TestAdvance() {
	created := s.appendItem("widget", 10)

	s.Require().NoError(s.pay(created.Index, 10))

	item, err := s.repo.GetByIndex(s.ctx, created.Index)
	s.Require().NoError(err)
	s.Equal(models.StatePaid, item.State)

	escrow, err := s.repo.GetEscrow(s.ctx, created.EscrowID)
	s.Require().NoError(err)
	s.Equal(int64(10), escrow.AmountReceived)

	log, err := s.repo.Events(s.ctx, created.Index)
	s.Require().NoError(err)
	s.Require().Len(log, 1)
	s.Equal(int(models.StatePaid), log[0].State)
	s.Equal(created.EscrowID, log[0].EscrowID)
	s.Equal(events.SupplyChainSetupVersion, log[0].Version)

	s.Require().Len(s.published, 1)
	s.Equal(log[0].EventID, s.published[0].EventID)
}

// TestRollback verifies a failing callback leaves no trace.
func (s *ItemRepositorySuite) TestRollback() {
	created := s.appendItem("widget", 10)
	abort := errors.New("abort")

	err := s.repo.RunInTx(s.ctx, func(ctx context.Context, tx repositories.ItemTx) error {
		item, _ := tx.GetForUpdate(ctx, created.Index)
		escrow, _ := tx.GetEscrowForUpdate(ctx, item.EscrowID)
		s.Require().NoError(escrow.Accept(10))
		s.Require().NoError(item.AdvanceTo(models.StatePaid, time.Now()))
		if _, err := tx.Advance(ctx, item, escrow); err != nil {
			return err
		}
		escrowOther := models.NewEscrow(1)
		other, _ := models.NewItem("ghost", 1, escrowOther.ID, time.Now())
		if err := tx.Append(ctx, other, escrowOther); err != nil {
			return err
		}
		return abort
	})
	s.Require().ErrorIs(err, abort)

	item, err := s.repo.GetByIndex(s.ctx, created.Index)
	s.Require().NoError(err)
	s.Equal(models.StateCreated, item.State)

	escrow, err := s.repo.GetEscrow(s.ctx, created.EscrowID)
	s.Require().NoError(err)
	s.False(escrow.IsSettled())

	count, _ := s.repo.Count(s.ctx)
	s.Equal(int64(1), count)

	log, _ := s.repo.Events(s.ctx, created.Index)
	s.Empty(log)
	s.Empty(s.published)
}

// TestCancelledContext verifies no transaction starts after cancellation.
func (s *ItemRepositorySuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	called := false
	err := s.repo.RunInTx(ctx, func(context.Context, repositories.ItemTx) error {
		called = true
		return nil
	})
	s.Require().ErrorIs(err, context.Canceled)
	s.False(called)
}

// TestList verifies pagination bounds.
func (s *ItemRepositorySuite) TestList() {
	for range 5 {
		s.appendItem("sku", 1)
	}

	tests := []struct {
		name      string
		opts      repositories.QueryOpts
		wantFirst int64
		wantLen   int
	}{
		{"first page", repositories.QueryOpts{Limit: 2}, 0, 2},
		{"middle page", repositories.QueryOpts{Limit: 2, Offset: 2}, 2, 2},
		{"short last page", repositories.QueryOpts{Limit: 2, Offset: 4}, 4, 1},
		{"offset past end", repositories.QueryOpts{Limit: 2, Offset: 9}, 0, 0},
		{"no limit", repositories.QueryOpts{Offset: 1}, 1, 4},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			page, total, err := s.repo.List(s.ctx, tt.opts)
			s.Require().NoError(err)
			s.Equal(int64(5), total)
			s.Require().Len(page, tt.wantLen)
			if tt.wantLen > 0 {
				s.Equal(tt.wantFirst, page[0].Index)
			}
		})
	}
}

// TestConcurrentPayments verifies exactly one of many racing payments wins.
func (s *ItemRepositorySuite) TestConcurrentPayments() {
	created := s.appendItem("contested", 7)

	const racers = 16
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.pay(created.Index, 7)
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		s.ErrorIs(err, itemdomain.ErrAlreadySettled)
	}
	s.Equal(1, wins)

	log, _ := s.repo.Events(s.ctx, created.Index)
	s.Len(log, 1)
}

// TestListenersSeeCommitOrder verifies a later commit is not announced while
// an earlier one is still being delivered to listeners.
func (s *ItemRepositorySuite) TestListenersSeeCommitOrder() {
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var seen []int
	s.repo = NewItemRepository(func(_ context.Context, evt events.SupplyChainSetupEvent) {
		if evt.State == int(models.StatePaid) {
			close(entered)
			<-release
		}
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, evt.State)
	})
	created := s.appendItem("ordered", 5)

	paid := make(chan error, 1)
	go func() { paid <- s.pay(created.Index, 5) }()
	<-entered

	// The item is readable while the payment's listener is still running.
	item, err := s.repo.GetByIndex(s.ctx, created.Index)
	s.Require().NoError(err)
	s.Equal(models.StatePaid, item.State)

	delivered := make(chan error, 1)
	go func() {
		delivered <- s.repo.RunInTx(s.ctx, func(ctx context.Context, tx repositories.ItemTx) error {
			item, err := tx.GetForUpdate(ctx, created.Index)
			if err != nil {
				return err
			}
			escrow, err := tx.GetEscrowForUpdate(ctx, item.EscrowID)
			if err != nil {
				return err
			}
			if err := item.AdvanceTo(models.StateDelivered, time.Now()); err != nil {
				return err
			}
			_, err = tx.Advance(ctx, item, escrow)
			return err
		})
	}()

	s.Eventually(func() bool {
		item, err := s.repo.GetByIndex(s.ctx, created.Index)
		return err == nil && item.State == models.StateDelivered
	}, time.Second, time.Millisecond)

	select {
	case <-delivered:
		s.Fail("delivery announced before the payment listener returned")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	s.Require().NoError(<-paid)
	s.Require().NoError(<-delivered)

	mu.Lock()
	defer mu.Unlock()
	s.Equal([]int{int(models.StatePaid), int(models.StateDelivered)}, seen)
}
