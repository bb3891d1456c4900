package workflows

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"

	"github.com/ghuser/itemchain/pkg/logger"
)

// TemporalClient is the connection used to hand paid and delivered items to
// the fulfilment workflow.
type TemporalClient struct {
	Client    client.Client
	Namespace string
	TaskQueue string
	log       logger.Logger
}

// NewTemporalClient dials Temporal with OTel tracing so fulfilment workflows
// join the trace of the item operation that started them. Workflows started
// through it are placed on taskQueue. Call Close() on shutdown.
func NewTemporalClient(ctx context.Context, hostPort, namespace, taskQueue string, log logger.Logger) (*TemporalClient, error) {
	if taskQueue == "" {
		return nil, fmt.Errorf("temporal task queue must not be empty")
	}

	otelInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer("itemchain/temporal"),
	})
	if err != nil {
		return nil, fmt.Errorf("create temporal otel interceptor: %w", err)
	}

	log = log.With("component", "temporal", "namespace", namespace)
	c, err := client.DialContext(ctx, client.Options{
		HostPort:     hostPort,
		Namespace:    namespace,
		Logger:       temporalLogger{log: log},
		Interceptors: []interceptor.ClientInterceptor{otelInterceptor},
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal server at %s: %w", hostPort, err)
	}

	log.InfoContext(ctx, "temporal client connected", "host_port", hostPort, "task_queue", taskQueue)

	return &TemporalClient{
		Client:    c,
		Namespace: namespace,
		TaskQueue: taskQueue,
		log:       log,
	}, nil
}

// Ping asks the frontend service for its health so /health can report it.
func (tc *TemporalClient) Ping(ctx context.Context) error {
	if _, err := tc.Client.CheckHealth(ctx, &client.CheckHealthRequest{}); err != nil {
		return fmt.Errorf("temporal health: %w", err)
	}
	return nil
}

// Close gracefully shuts down the Temporal client connection.
func (tc *TemporalClient) Close() {
	tc.Client.Close()
	tc.log.Info("temporal client closed")
}

// temporalLogger adapts logger.Logger to Temporal's log.Logger interface.
// The SDK is chatty at info level, so Info is demoted to Debug.
type temporalLogger struct {
	log logger.Logger
}

var _ temporallog.Logger = temporalLogger{}

func (l temporalLogger) Debug(msg string, keyvals ...any) { l.log.Debug(msg, keyvals...) }
func (l temporalLogger) Info(msg string, keyvals ...any)  { l.log.Debug(msg, keyvals...) }
func (l temporalLogger) Warn(msg string, keyvals ...any)  { l.log.Warn(msg, keyvals...) }
func (l temporalLogger) Error(msg string, keyvals ...any) { l.log.Error(msg, keyvals...) }
