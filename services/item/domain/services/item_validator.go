// Package services contains stateless domain services for the item bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/itemchain/services/item/domain"
	"github.com/ghuser/itemchain/services/item/domain/models"
)

// ValidateItemForCreation performs cross-aggregate validation on a freshly
// constructed Item and its Escrow before they are appended to the registry.
//
// Business rules:
//   - Price is a positive integer
//   - Item starts in Created
//   - Item references exactly this escrow
//   - Escrow expects the item price and holds nothing yet
func ValidateItemForCreation(item *models.Item, escrow *models.Escrow) error {
	if item == nil || escrow == nil {
		return fmt.Errorf("item and escrow cannot be nil")
	}

	if item.Price <= 0 {
		return fmt.Errorf("%w: got %d", itemdomain.ErrInvalidPrice, item.Price)
	}

	if item.State != models.StateCreated {
		return fmt.Errorf("new item must be %s, got %s", models.StateCreated, item.State)
	}

	if escrow.ID == uuid.Nil || item.EscrowID != escrow.ID {
		return fmt.Errorf("item must reference its escrow")
	}

	if escrow.ExpectedPrice != item.Price {
		return fmt.Errorf("escrow price %s does not match item price %s", escrow.ExpectedPrice, item.Price)
	}

	if escrow.IsSettled() {
		return fmt.Errorf("new escrow must be unsettled")
	}

	return nil
}
