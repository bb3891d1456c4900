package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the item module.
// Tracks registrations, lifecycle transitions, rejected operations and the
// duration of transactional operations.
type Metrics struct {
	ItemsCreated      prometheus.Counter
	Transitions       *prometheus.CounterVec
	Rejections        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New creates a Metrics instance registered with the default Prometheus registry.
// Call it once per process.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a Metrics instance registered with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ItemsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "itemchain_items_created_total",
			Help: "Total number of items registered",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "itemchain_item_transitions_total",
			Help: "Lifecycle transitions by target state",
		}, []string{"state"}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "itemchain_item_rejections_total",
			Help: "Rejected item operations by operation and error kind",
		}, []string{"operation", "kind"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "itemchain_item_operation_duration_seconds",
			Help:    "Duration of transactional item operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementCreated records a successful item registration.
func (m *Metrics) IncrementCreated() {
	m.ItemsCreated.Inc()
}

// IncrementTransition records a committed transition into state.
func (m *Metrics) IncrementTransition(state string) {
	m.Transitions.WithLabelValues(state).Inc()
}

// IncrementRejection records an operation rejected with the given error kind.
func (m *Metrics) IncrementRejection(operation, kind string) {
	m.Rejections.WithLabelValues(operation, kind).Inc()
}

// ObserveOperation records how long operation took.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
