// Package events carries item lifecycle events between processes over
// PostgreSQL, using Watermill's SQL transport.
//
// The API process publishes SupplyChainSetup events inside the transaction
// that changed the item (PublishTx). With the forwarder enabled those
// messages land in an outbox topic first and a background Forwarder moves
// them to their real topic after commit. The worker subscribes to the real
// topic through a Watermill router:
//
//   - ConsumerGroup (default: <service>-consumer): each message is handled by
//     one instance of the group.
//   - A failing handler is retried with exponential backoff; once retries
//     are exhausted the message is moved to "<topic>.poison" and acked, so
//     one bad event never blocks the topic.
//
// Handlers must be idempotent: delivery is at-least-once.
//
// OTel context propagation: trace context is injected into message metadata
// on publish and restored before the handler runs.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/itemchain/pkg/config"
	"github.com/ghuser/itemchain/pkg/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "_forwarder_queue"
	forwarderGroup  = "forwarder-consumer"
)

// Options configures an EventBus.
type Options struct {
	// ConsumerGroup load-balances subscribers sharing the same name.
	ConsumerGroup string
	// Forwarder routes every publish through the outbox topic. Call
	// StartForwarder once the bus is created.
	Forwarder bool
	// MaxRetries is the number of redeliveries before a message is poisoned.
	MaxRetries int
	// RetryInterval is the first backoff delay; it doubles on each retry.
	RetryInterval time.Duration
}

// OptionsFromConfig returns the default options for the running service.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ConsumerGroup: cfg.ServiceName + "-consumer",
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
}

// EventBus publishes and subscribes to topics stored in PostgreSQL.
type EventBus struct {
	publisher  message.Publisher // forwarder-wrapped when opts.Forwarder is set
	direct     message.Publisher // always publishes straight to the topic
	subscriber message.Subscriber
	db         *sql.DB
	opts       Options
	log        logger.Logger
	wlog       watermill.LoggerAdapter

	mu      sync.Mutex
	fwd     *forwarder.Forwarder
	routers []*message.Router
	wg      sync.WaitGroup
}

// New builds an EventBus on db, the same pool the item repository writes
// through, so PublishTx joins the repository transaction. Schema tables are
// created on first use. The bus does not close db.
func New(db *sql.DB, opts Options, log logger.Logger) (*EventBus, error) {
	wlog := newWatermillLogger(log)

	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := newSQLSubscriber(db, opts.ConsumerGroup, wlog)
	if err != nil {
		_ = pub.Close()
		return nil, err
	}

	return newBus(pub, sub, db, opts, log), nil
}

func newBus(pub message.Publisher, sub message.Subscriber, db *sql.DB, opts Options, log logger.Logger) *EventBus {
	var publisher message.Publisher = pub
	if opts.Forwarder {
		publisher = forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
	}
	return &EventBus{
		publisher:  publisher,
		direct:     pub,
		subscriber: sub,
		db:         db,
		opts:       opts,
		log:        log,
		wlog:       newWatermillLogger(log),
	}
}

func newSQLSubscriber(db *sql.DB, group string, wlog watermill.LoggerAdapter) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber for %s: %w", group, err)
	}
	return sub, nil
}

// StartForwarder starts the daemon that moves committed outbox messages to
// their target topics. It returns once the forwarder is running.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if !q.opts.Forwarder {
		return fmt.Errorf("events: StartForwarder called on non-forwarder EventBus")
	}
	q.mu.Lock()
	if q.fwd != nil {
		q.mu.Unlock()
		return fmt.Errorf("events: forwarder already started")
	}

	fwdSub, err := newSQLSubscriber(q.db, forwarderGroup, q.wlog)
	if err != nil {
		q.mu.Unlock()
		return err
	}
	fwd, err := forwarder.NewForwarder(fwdSub, q.direct, q.wlog, forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		q.mu.Unlock()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: forwarder started")
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		q.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: context cancelled waiting for forwarder: %w", ctx.Err())
	}
}

// NewTxPublisher returns a Publisher bound to tx, so the message is stored
// only if tx commits. In forwarder mode messages are enveloped for the
// outbox topic.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, watermillsql.PublisherConfig{
		SchemaAdapter: watermillsql.DefaultPostgreSQLSchema{},
	}, q.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	if q.opts.Forwarder {
		return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic}), nil
	}
	return pub, nil
}

// PublishTx publishes msgs to topic inside tx.
func (q *EventBus) PublishTx(tx *sql.Tx, topic string, msgs ...*message.Message) error {
	p, err := q.NewTxPublisher(tx)
	if err != nil {
		return err
	}
	if err := p.Publish(topic, msgs...); err != nil {
		return fmt.Errorf("events: publish to %s in tx: %w", topic, err)
	}
	return nil
}

// Publish sends msgs to topic outside any transaction, injecting the trace
// context from ctx into each message.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Ping checks the database the bus stores messages in.
func (q *EventBus) Ping(ctx context.Context) error {
	if q.db == nil {
		return fmt.Errorf("events: no database")
	}
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber routers and the forwarder, waits up to 30s for
// in-flight handlers, then closes the publisher and subscriber.
func (q *EventBus) Close() error {
	q.mu.Lock()
	routers, fwd := q.routers, q.fwd
	q.routers = nil
	q.mu.Unlock()

	for _, r := range routers {
		if err := r.Close(); err != nil {
			q.log.Error("events: close router", "error", err)
		}
	}
	if fwd != nil {
		if err := fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers to complete")
	}

	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}
