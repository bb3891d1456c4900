package workflows

import (
	"context"
	"errors"
	"testing"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/ghuser/itemchain/pkg/logger"
)

type fakeRun struct{ client.WorkflowRun }

func (fakeRun) GetRunID() string { return "run-1" }

type call struct {
	kind     string
	id       string
	queue    string
	workflow interface{}
	signal   string
}

type fakeStarter struct {
	calls []call
	err   error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	f.calls = append(f.calls, call{kind: "execute", id: options.ID, queue: options.TaskQueue, workflow: workflow})
	if f.err != nil {
		return nil, f.err
	}
	return fakeRun{}, nil
}

func (f *fakeStarter) SignalWithStartWorkflow(_ context.Context, workflowID, signalName string, _ interface{},
	options client.StartWorkflowOptions, workflow interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	f.calls = append(f.calls, call{kind: "signal", id: workflowID, queue: options.TaskQueue, workflow: workflow, signal: signalName})
	if f.err != nil {
		return nil, f.err
	}
	return fakeRun{}, nil
}

func newTestFulfilment(s *fakeStarter) *Fulfilment {
	return &Fulfilment{starter: s, taskQueue: "item-fulfilment", log: logger.Discard()}
}

func TestFulfilmentWorkflowID(t *testing.T) {
	if got := FulfilmentWorkflowID(7); got != "item-fulfilment-7" {
		t.Fatalf("FulfilmentWorkflowID(7) = %q", got)
	}
}

func TestFulfilment_Start(t *testing.T) {
	s := &fakeStarter{}
	f := newTestFulfilment(s)

	if err := f.Start(context.Background(), FulfilmentRequest{ItemIndex: 3, State: 1}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(s.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(s.calls))
	}
	c := s.calls[0]
	if c.kind != "execute" || c.id != "item-fulfilment-3" || c.queue != "item-fulfilment" || c.workflow != FulfilmentWorkflow {
		t.Fatalf("unexpected call: %+v", c)
	}
}

func TestFulfilment_StartAlreadyRunning(t *testing.T) {
	s := &fakeStarter{err: &serviceerror.WorkflowExecutionAlreadyStarted{Message: "already started"}}
	if err := newTestFulfilment(s).Start(context.Background(), FulfilmentRequest{ItemIndex: 3}); err != nil {
		t.Fatalf("expected duplicate start to succeed, got %v", err)
	}
}

func TestFulfilment_StartFailure(t *testing.T) {
	boom := errors.New("unavailable")
	s := &fakeStarter{err: boom}
	if err := newTestFulfilment(s).Start(context.Background(), FulfilmentRequest{ItemIndex: 3}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestFulfilment_SignalDelivered(t *testing.T) {
	s := &fakeStarter{}
	if err := newTestFulfilment(s).SignalDelivered(context.Background(), FulfilmentRequest{ItemIndex: 4, State: 2}); err != nil {
		t.Fatalf("SignalDelivered: %v", err)
	}
	c := s.calls[0]
	if c.kind != "signal" || c.id != "item-fulfilment-4" || c.signal != SignalItemDelivered || c.workflow != FulfilmentWorkflow {
		t.Fatalf("unexpected call: %+v", c)
	}
}
