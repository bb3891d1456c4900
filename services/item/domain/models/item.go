package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/itemchain/services/item/domain"
)

// Item is the core aggregate for this bounded context: one purchasable unit
// and its position in the supply-chain lifecycle.
type Item struct {
	Index      int64 // creation order; assigned by the repository on append
	Identifier string
	Price      Price
	State      State
	EscrowID   uuid.UUID // fixed at creation, never reassigned
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewItem constructs an Item in state Created bound to the given escrow.
func NewItem(identifier string, price Price, escrowID uuid.UUID, now time.Time) (*Item, error) {
	if escrowID == uuid.Nil {
		return nil, fmt.Errorf("escrow id must be set")
	}
	return &Item{
		Identifier: identifier,
		Price:      price,
		State:      StateCreated,
		EscrowID:   escrowID,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}, nil
}

// CanAdvanceTo returns ErrInvalidTransition unless next is the immediate
// successor of the current state.
func (i *Item) CanAdvanceTo(next State) error {
	want, ok := i.State.Next()
	if !ok || want != next {
		return fmt.Errorf("%w: item %d is %s", itemdomain.ErrInvalidTransition, i.Index, i.State)
	}
	return nil
}

// AdvanceTo moves the item to next. The item is left untouched on error.
func (i *Item) AdvanceTo(next State, at time.Time) error {
	if err := i.CanAdvanceTo(next); err != nil {
		return err
	}
	i.State = next
	i.UpdatedAt = at.UTC()
	return nil
}
