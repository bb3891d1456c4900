package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

const errBuffer = 100

// Handler processes one message. Returning an error triggers a retry.
type Handler func(ctx context.Context, msg *message.Message) error

// PoisonTopic is where messages of topic go after exhausting their retries.
func PoisonTopic(topic string) string {
	return topic + ".poison"
}

// Subscribe runs handler for every message on topic until ctx is cancelled
// or the bus is closed. The handler context carries the publisher's trace.
//
// A handler error is retried opts.MaxRetries times with exponential backoff
// starting at opts.RetryInterval. After that the message is published to
// PoisonTopic(topic), acked, and the error is sent on the returned channel.
// The channel is buffered; callers must drain it:
//
//	errCh, err := bus.Subscribe(ctx, topic, handler)
//	go func() { for err := range errCh { log.ErrorContext(ctx, "subscriber error", "error", err) } }()
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, q.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new router for %s: %w", topic, err)
	}

	poison, err := middleware.PoisonQueue(q.direct, PoisonTopic(topic))
	if err != nil {
		return nil, fmt.Errorf("events: poison queue for %s: %w", topic, err)
	}

	errCh := make(chan error, errBuffer)
	router.AddMiddleware(
		poison,
		q.reportFailures(topic, errCh),
		middleware.Retry{
			MaxRetries:      q.opts.MaxRetries,
			InitialInterval: q.opts.RetryInterval,
			Multiplier:      2,
			Logger:          q.wlog,
		}.Middleware,
		middleware.Recoverer,
	)
	router.AddNoPublisherHandler(topic+"-handler", topic, q.subscriber, func(msg *message.Message) error {
		return handler(extractTrace(msg.Context(), msg), msg)
	})

	q.mu.Lock()
	q.routers = append(q.routers, router)
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)
		if err := router.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: router stopped with error", "topic", topic, "error", err)
		}
	}()

	select {
	case <-router.Running():
		return errCh, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("events: context cancelled waiting for %s subscriber: %w", topic, ctx.Err())
	}
}

// reportFailures forwards errors that survived the retry middleware to errCh
// before the poison queue swallows them.
func (q *EventBus) reportFailures(topic string, errCh chan<- error) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			out, err := h(msg)
			if err == nil {
				return out, nil
			}
			wrapped := fmt.Errorf("events: %s message %s poisoned: %w", topic, msg.UUID, err)
			select {
			case errCh <- wrapped:
			default:
				q.log.ErrorContext(msg.Context(), "events: error channel full, dropping error",
					"error", wrapped, "topic", topic)
			}
			return out, err
		}
	}
}
