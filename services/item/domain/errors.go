package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
// Each message is the stable, user-visible reason for its error kind.
var (
	// ErrOutOfRange indicates the referenced item index does not exist.
	ErrOutOfRange = errors.New("item is not available")

	// ErrInvalidAmount indicates a submitted value does not exactly equal the item price.
	ErrInvalidAmount = errors.New("only full payments accepted")

	// ErrEscrowInvalidAmount is the escrow's own rejection of a partial or
	// excess deposit. It matches ErrInvalidAmount under errors.Is.
	ErrEscrowInvalidAmount error = escrowAmountError{}

	// ErrAlreadySettled indicates the escrow has already accepted its one payment.
	ErrAlreadySettled = errors.New("item is paid already")

	// ErrInvalidTransition indicates the lifecycle step is not valid from the current state.
	ErrInvalidTransition = errors.New("item is further in the chain")

	// ErrNotAuthorized indicates the caller is not the registry owner.
	ErrNotAuthorized = errors.New("caller is not the owner")

	// ErrInvalidPrice indicates a price that is not a positive integer.
	ErrInvalidPrice = errors.New("price must be a positive integer")

	// ErrEscrowNotFound indicates the referenced escrow does not exist.
	ErrEscrowNotFound = errors.New("escrow not found")
)

// escrowAmountError carries the escrow's reason while sharing the
// invalid_amount kind with ErrInvalidAmount.
type escrowAmountError struct{}

func (escrowAmountError) Error() string { return "only full payments allowed" }

func (escrowAmountError) Is(target error) bool { return target == ErrInvalidAmount }

// kinds lists every sentinel with its stable machine-readable name. The
// escrow sentinel precedes ErrInvalidAmount so Reason reports the narrower one.
var kinds = []struct {
	err  error
	name string
}{
	{ErrOutOfRange, "out_of_range"},
	{ErrEscrowInvalidAmount, "invalid_amount"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrAlreadySettled, "already_settled"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrNotAuthorized, "not_authorized"},
	{ErrInvalidPrice, "invalid_price"},
	{ErrEscrowNotFound, "escrow_not_found"},
}

// Kind returns the machine-readable name of the sentinel err wraps, or
// "internal" when it wraps none.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

// Reason returns the stable message of the sentinel err wraps, and false when
// err is not a domain error.
func Reason(err error) (string, bool) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err.Error(), true
		}
	}
	return "", false
}
