package models

import (
	"fmt"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/itemchain/services/item/domain"
)

// Escrow custodies the single payment for one Item. It enforces the
// exact-value, single-acceptance rule on its own, whichever path the value
// arrives through.
type Escrow struct {
	ID             uuid.UUID
	ItemIndex      int64
	ExpectedPrice  Price
	AmountReceived int64 // 0, or exactly ExpectedPrice once accepted
}

// NewEscrow allocates an unsettled escrow bound to price.
func NewEscrow(price Price) *Escrow {
	return &Escrow{
		ID:            uuid.New(),
		ExpectedPrice: price,
	}
}

// IsSettled reports whether the escrow has accepted its payment.
func (e *Escrow) IsSettled() bool {
	return e.AmountReceived > 0
}

// CheckAcceptable validates value against the escrow without mutating it.
func (e *Escrow) CheckAcceptable(value int64) error {
	if !e.ExpectedPrice.Matches(value) {
		return fmt.Errorf("%w: escrow %s expects %s, got %d", itemdomain.ErrEscrowInvalidAmount, e.ID, e.ExpectedPrice, value)
	}
	if e.IsSettled() {
		return fmt.Errorf("%w: escrow %s", itemdomain.ErrAlreadySettled, e.ID)
	}
	return nil
}

// Accept records value as the escrow's one payment.
func (e *Escrow) Accept(value int64) error {
	if err := e.CheckAcceptable(value); err != nil {
		return err
	}
	e.AmountReceived = e.ExpectedPrice.Int64()
	return nil
}
