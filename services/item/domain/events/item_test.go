package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/itemchain/services/item/domain/events"
)

func TestSupplyChainSetupEvent_JSONFieldNames(t *testing.T) {
	evt := events.SupplyChainSetupEvent{
		EventID:    uuid.New(),
		Version:    events.SupplyChainSetupVersion,
		ItemIndex:  0,
		State:      1,
		EscrowID:   uuid.New(),
		OccurredAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}

	for _, field := range []string{"event_id", "version", "item_index", "state", "escrow_id", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
	if raw["item_index"] != float64(0) {
		t.Errorf("item_index: got %v, want 0", raw["item_index"])
	}
	if raw["state"] != float64(1) {
		t.Errorf("state: got %v, want 1", raw["state"])
	}
}

func TestTopicSupplyChainSetup_Value(t *testing.T) {
	if events.TopicSupplyChainSetup != "item.supply_chain_setup" {
		t.Errorf("expected %q, got %q", "item.supply_chain_setup", events.TopicSupplyChainSetup)
	}
}
