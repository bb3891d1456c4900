package services

import (
	"fmt"
	"time"

	itemdomain "github.com/ghuser/itemchain/services/item/domain"
	"github.com/ghuser/itemchain/services/item/domain/models"
)

// ApplyPayment advances item from Created to Paid through the registry path.
// Every check runs before anything is mutated:
//  1. value must equal the item price (ErrInvalidAmount)
//  2. item must be Created (ErrInvalidTransition)
//  3. the escrow re-validates value on its own (ErrEscrowInvalidAmount, ErrAlreadySettled)
func ApplyPayment(item *models.Item, escrow *models.Escrow, value int64, at time.Time) error {
	if err := checkPair(item, escrow); err != nil {
		return err
	}
	if !item.Price.Matches(value) {
		return fmt.Errorf("%w: item %d costs %s, got %d", itemdomain.ErrInvalidAmount, item.Index, item.Price, value)
	}
	if err := item.CanAdvanceTo(models.StatePaid); err != nil {
		return err
	}
	if err := escrow.Accept(value); err != nil {
		return err
	}
	return item.AdvanceTo(models.StatePaid, at)
}

// ApplyDeposit handles value transferred straight into an escrow. The escrow
// rules are checked first, then the owning item must still be Created.
func ApplyDeposit(item *models.Item, escrow *models.Escrow, value int64, at time.Time) error {
	if err := checkPair(item, escrow); err != nil {
		return err
	}
	if err := escrow.CheckAcceptable(value); err != nil {
		return err
	}
	if err := item.CanAdvanceTo(models.StatePaid); err != nil {
		return err
	}
	if err := escrow.Accept(value); err != nil {
		return err
	}
	return item.AdvanceTo(models.StatePaid, at)
}

// AuthorizeDelivery returns ErrNotAuthorized unless caller is the registry owner.
func AuthorizeDelivery(owner, caller models.Identity) error {
	if owner.IsZero() || caller != owner {
		return fmt.Errorf("%w: %q", itemdomain.ErrNotAuthorized, caller.String())
	}
	return nil
}

// ApplyDelivery advances item from Paid to Delivered on behalf of caller.
// Authority is checked before state so a non-owner learns nothing about the item.
func ApplyDelivery(item *models.Item, owner, caller models.Identity, at time.Time) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if err := AuthorizeDelivery(owner, caller); err != nil {
		return err
	}
	return item.AdvanceTo(models.StateDelivered, at)
}

func checkPair(item *models.Item, escrow *models.Escrow) error {
	if item == nil || escrow == nil {
		return fmt.Errorf("item and escrow cannot be nil")
	}
	if item.EscrowID != escrow.ID {
		return fmt.Errorf("escrow %s does not belong to item %d", escrow.ID, item.Index)
	}
	return nil
}
