package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrOutOfRange, "item is not available"},
		{ErrInvalidAmount, "only full payments accepted"},
		{ErrEscrowInvalidAmount, "only full payments allowed"},
		{ErrAlreadySettled, "item is paid already"},
		{ErrInvalidTransition, "item is further in the chain"},
		{ErrNotAuthorized, "caller is not the owner"},
		{ErrInvalidPrice, "price must be a positive integer"},
		{ErrEscrowNotFound, "escrow not found"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("sentinel must not be nil")
			}
			if tt.err.Error() != tt.want {
				t.Fatalf("unexpected message: %q", tt.err.Error())
			}
		})
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrOutOfRange, ErrInvalidAmount, ErrAlreadySettled,
		ErrInvalidTransition, ErrNotAuthorized, ErrInvalidPrice, ErrEscrowNotFound,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%q must not match %q", a, b)
			}
		}
	}
}

func TestEscrowInvalidAmount_SharesKind(t *testing.T) {
	err := fmt.Errorf("deposit: %w", ErrEscrowInvalidAmount)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatal("escrow rejection must match ErrInvalidAmount")
	}
	if errors.Is(ErrInvalidAmount, ErrEscrowInvalidAmount) {
		t.Fatal("registry rejection must not match the escrow sentinel")
	}
	if ErrEscrowInvalidAmount.Error() == ErrInvalidAmount.Error() {
		t.Fatal("escrow and registry reasons must differ")
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("trigger payment: %w", ErrOutOfRange)
	if !errors.Is(wrapped, ErrOutOfRange) {
		t.Fatal("errors.Is must match wrapped ErrOutOfRange")
	}

	wrapped2 := fmt.Errorf("%w: item 3 is delivered", ErrInvalidTransition)
	if !errors.Is(wrapped2, ErrInvalidTransition) {
		t.Fatal("errors.Is must match wrapped ErrInvalidTransition")
	}
}

func TestKindAndReason(t *testing.T) {
	tests := []struct {
		err        error
		wantKind   string
		wantReason string
	}{
		{fmt.Errorf("%w: item 9", ErrOutOfRange), "out_of_range", "item is not available"},
		{fmt.Errorf("%w: got 5", ErrInvalidAmount), "invalid_amount", "only full payments accepted"},
		{fmt.Errorf("%w: escrow e1 expects 100, got 5", ErrEscrowInvalidAmount), "invalid_amount", "only full payments allowed"},
		{ErrAlreadySettled, "already_settled", "item is paid already"},
		{fmt.Errorf("%w: item 0 is paid", ErrInvalidTransition), "invalid_transition", "item is further in the chain"},
		{ErrNotAuthorized, "not_authorized", "caller is not the owner"},
		{ErrInvalidPrice, "invalid_price", "price must be a positive integer"},
		{ErrEscrowNotFound, "escrow_not_found", "escrow not found"},
	}
	for _, tt := range tests {
		t.Run(tt.wantReason, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.wantKind {
				t.Fatalf("Kind() = %q, want %q", got, tt.wantKind)
			}
			reason, ok := Reason(tt.err)
			if !ok || reason != tt.wantReason {
				t.Fatalf("Reason() = %q, %v; want %q", reason, ok, tt.wantReason)
			}
		})
	}

	if got := Kind(errors.New("db down")); got != "internal" {
		t.Fatalf("Kind(unknown) = %q, want internal", got)
	}
	if _, ok := Reason(errors.New("db down")); ok {
		t.Fatal("Reason(unknown) must report false")
	}
}
