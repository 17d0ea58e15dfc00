// Package metrics provides Prometheus instrumentation for streamkit components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for streamkit components.
type Registry struct {
	// Stream Metrics
	StreamOperations   *prometheus.CounterVec
	StreamItems        *prometheus.CounterVec
	StreamErrors       *prometheus.CounterVec
	StreamBufferSize   *prometheus.GaugeVec
	StreamBufferUsage  *prometheus.GaugeVec
	StreamState        *prometheus.GaugeVec
	AsyncWritesPending *prometheus.GaugeVec
	AsyncWriteDuration *prometheus.HistogramVec

	// Bridge Metrics
	BridgeItems  *prometheus.CounterVec
	BridgeErrors *prometheus.CounterVec

	// IO Adapter Metrics
	IOBytes *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by streamkit components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	cfg := DefaultConfig()
	cfg.Registry = reg
	return NewRegistryWithConfig(cfg)
}

// NewRegistryWithConfig creates a registry honoring the namespace and constant
// labels of cfg.
func NewRegistryWithConfig(cfg Config) *Registry {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultConfig().Namespace
	}
	factory := promauto.With(reg)

	return &Registry{
		// Stream Metrics
		StreamOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "operations_total",
				Help:        "Total number of stream operations",
				ConstLabels: cfg.Labels,
			},
			[]string{"operation", "stream_name"},
		),

		StreamItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "items_total",
				Help:        "Total number of items moved through streams",
				ConstLabels: cfg.Labels,
			},
			[]string{"direction", "stream_name"},
		),

		StreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "errors_total",
				Help:        "Total number of stream faults by kind",
				ConstLabels: cfg.Labels,
			},
			[]string{"kind", "stream_name"},
		),

		StreamBufferSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "buffer_size",
				Help:        "Stream buffer capacity",
				ConstLabels: cfg.Labels,
			},
			[]string{"stream_name"},
		),

		StreamBufferUsage: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "buffer_usage",
				Help:        "Current number of buffered items",
				ConstLabels: cfg.Labels,
			},
			[]string{"stream_name"},
		),

		StreamState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "state",
				Help:        "Stream state (0 ready, 1 close requested, 2 closed, 3 errored)",
				ConstLabels: cfg.Labels,
			},
			[]string{"stream_name"},
		),

		AsyncWritesPending: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "async_writes_pending",
				Help:        "Asynchronous writes waiting for buffer space",
				ConstLabels: cfg.Labels,
			},
			[]string{"stream_name"},
		),

		AsyncWriteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "async_write_duration_seconds",
				Help:        "Time from WriteAsync until the write resolved",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: cfg.Labels,
			},
			[]string{"stream_name", "outcome"},
		),

		// Bridge Metrics
		BridgeItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "bridge",
				Name:        "items_total",
				Help:        "Items moved between streams and Redis",
				ConstLabels: cfg.Labels,
			},
			[]string{"direction", "key"},
		),

		BridgeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "bridge",
				Name:        "errors_total",
				Help:        "Redis bridge failures",
				ConstLabels: cfg.Labels,
			},
			[]string{"direction", "key"},
		),

		// IO Adapter Metrics
		IOBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "io",
				Name:        "bytes_total",
				Help:        "Bytes moved through stream io adapters",
				ConstLabels: cfg.Labels,
			},
			[]string{"direction", "stream_name"},
		),
	}
}
