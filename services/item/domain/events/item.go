package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicSupplyChainSetup is the Watermill topic published on every successful
// lifecycle advance (Created → Paid, Paid → Delivered).
const TopicSupplyChainSetup = "item.supply_chain_setup"

// SupplyChainSetupVersion is the current schema version of SupplyChainSetupEvent.
const SupplyChainSetupVersion = 1

// SupplyChainSetupEvent is published after an item's new state is committed.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicSupplyChainSetup).
type SupplyChainSetupEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemIndex  int64     `json:"item_index"`
	State      int       `json:"state"` // 1 = paid, 2 = delivered
	EscrowID   uuid.UUID `json:"escrow_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewSupplyChainSetupEvent builds the event for an item that has just reached state.
func NewSupplyChainSetupEvent(index int64, state int, escrowID uuid.UUID, at time.Time) SupplyChainSetupEvent {
	return SupplyChainSetupEvent{
		EventID:    uuid.New(),
		Version:    SupplyChainSetupVersion,
		ItemIndex:  index,
		State:      state,
		EscrowID:   escrowID,
		OccurredAt: at.UTC(),
	}
}
