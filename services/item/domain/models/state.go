package models

import "fmt"

// State is the lifecycle position of an Item. Values are stable and appear in
// emitted events and persisted rows.
type State int

const (
	StateCreated State = iota
	StatePaid
	StateDelivered
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StatePaid:
		return "paid"
	case StateDelivered:
		return "delivered"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Valid reports whether s is one of the known lifecycle states.
func (s State) Valid() bool {
	return s >= StateCreated && s <= StateDelivered
}

// Next returns the only state reachable from s. Delivered is terminal.
func (s State) Next() (State, bool) {
	switch s {
	case StateCreated:
		return StatePaid, true
	case StatePaid:
		return StateDelivered, true
	default:
		return s, false
	}
}

// ParseState converts a stored integer into a State.
func ParseState(v int) (State, error) {
	s := State(v)
	if !s.Valid() {
		return 0, fmt.Errorf("unknown item state %d", v)
	}
	return s, nil
}
