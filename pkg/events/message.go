package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// NewJSONMessage marshals v into a new message carrying metadata and the OTel
// trace context from ctx.
func NewJSONMessage(ctx context.Context, v any, metadata map[string]string) (*message.Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	for k, val := range metadata {
		msg.Metadata.Set(k, val)
	}
	injectTrace(ctx, msg)
	return msg, nil
}

// DecodeJSON unmarshals the message payload into a T.
func DecodeJSON[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("events: decode message %s: %w", msg.UUID, err)
	}
	return v, nil
}

func injectTrace(ctx context.Context, msg *message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
}

// extractTrace returns ctx carrying the publisher's span from msg metadata.
func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
}
