package models

import (
	"fmt"
	"strconv"
)

// Price is a value object representing a positive integral amount in the
// smallest currency unit.
type Price int64

// NewPrice constructs a valid Price or returns an error if p is not positive.
func NewPrice(p int64) (Price, error) {
	if p <= 0 {
		return 0, fmt.Errorf("price must be greater than zero, got %d", p)
	}
	return Price(p), nil
}

// Int64 returns the underlying amount.
func (p Price) Int64() int64 {
	return int64(p)
}

// Matches reports whether value is exactly the price.
func (p Price) Matches(value int64) bool {
	return int64(p) == value
}

// String returns the decimal representation of the amount.
func (p Price) String() string {
	return strconv.FormatInt(int64(p), 10)
}
