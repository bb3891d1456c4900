package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/ghuser/itemchain/pkg/logger"
)

// Names shared with the fulfilment workers that execute the workflow.
const (
	FulfilmentWorkflow  = "ItemFulfilmentWorkflow"
	SignalItemDelivered = "item-delivered"
)

// FulfilmentRequest is the workflow input and the delivery signal payload.
type FulfilmentRequest struct {
	ItemIndex int64  `json:"item_index"`
	EscrowID  string `json:"escrow_id"`
	EventID   string `json:"event_id"`
	State     int    `json:"state"`
}

// workflowStarter is the part of client.Client that Fulfilment needs.
type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	SignalWithStartWorkflow(ctx context.Context, workflowID, signalName string, signalArg interface{},
		options client.StartWorkflowOptions, workflow interface{}, workflowArgs ...interface{}) (client.WorkflowRun, error)
}

// Fulfilment starts one fulfilment workflow per item, by type name, on the
// client's task queue. Calls are idempotent so event redelivery is harmless.
type Fulfilment struct {
	starter   workflowStarter
	taskQueue string
	log       logger.Logger
}

// NewFulfilment returns a Fulfilment backed by tc.
func NewFulfilment(tc *TemporalClient) *Fulfilment {
	return &Fulfilment{starter: tc.Client, taskQueue: tc.TaskQueue, log: tc.log}
}

// FulfilmentWorkflowID is the workflow ID used for the item at index.
func FulfilmentWorkflowID(index int64) string {
	return fmt.Sprintf("item-fulfilment-%d", index)
}

// Start begins fulfilment for a paid item. A workflow already running for the
// item counts as success.
func (f *Fulfilment) Start(ctx context.Context, req FulfilmentRequest) error {
	id := FulfilmentWorkflowID(req.ItemIndex)
	run, err := f.starter.ExecuteWorkflow(ctx, f.options(id), FulfilmentWorkflow, req)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			f.log.DebugContext(ctx, "fulfilment already started", "workflow_id", id)
			return nil
		}
		return fmt.Errorf("start fulfilment %s: %w", id, err)
	}
	f.log.InfoContext(ctx, "fulfilment started", "workflow_id", id, "run_id", run.GetRunID())
	return nil
}

// SignalDelivered tells the item's fulfilment workflow the item was delivered,
// starting the workflow first if it does not exist yet.
func (f *Fulfilment) SignalDelivered(ctx context.Context, req FulfilmentRequest) error {
	id := FulfilmentWorkflowID(req.ItemIndex)
	run, err := f.starter.SignalWithStartWorkflow(ctx, id, SignalItemDelivered, req, f.options(id), FulfilmentWorkflow, req)
	if err != nil {
		return fmt.Errorf("signal fulfilment %s: %w", id, err)
	}
	f.log.InfoContext(ctx, "fulfilment signalled", "workflow_id", id, "run_id", run.GetRunID())
	return nil
}

func (f *Fulfilment) options(id string) client.StartWorkflowOptions {
	return client.StartWorkflowOptions{
		ID:        id,
		TaskQueue: f.taskQueue,
	}
}
