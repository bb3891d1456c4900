package services

import (
	"context"
	"fmt"

	"github.com/ghuser/itemchain/pkg/workflows"
	domainevents "github.com/ghuser/itemchain/services/item/domain/events"
	"github.com/ghuser/itemchain/services/item/domain/models"
)

// FulfilmentNotifier hands committed lifecycle changes to an external
// fulfilment system.
type FulfilmentNotifier interface {
	Start(ctx context.Context, req workflows.FulfilmentRequest) error
	SignalDelivered(ctx context.Context, req workflows.FulfilmentRequest) error
}

// NotifyFulfilment starts fulfilment when an item is paid and signals it when
// the item is delivered.
func NotifyFulfilment(ctx context.Context, n FulfilmentNotifier, evt domainevents.SupplyChainSetupEvent) error {
	req := workflows.FulfilmentRequest{
		ItemIndex: evt.ItemIndex,
		EscrowID:  evt.EscrowID.String(),
		EventID:   evt.EventID.String(),
		State:     evt.State,
	}
	switch models.State(evt.State) {
	case models.StatePaid:
		return n.Start(ctx, req)
	case models.StateDelivered:
		return n.SignalDelivered(ctx, req)
	default:
		return fmt.Errorf("event %s carries unexpected state %d", evt.EventID, evt.State)
	}
}
