package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "streamkit" namespace for metrics.
	Namespace string

	// Labels are additional labels to add to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: "streamkit",
		Labels:    nil,
	}
}

// Build returns a Registry for cfg, or nil when metrics are disabled.
// Components treat a nil Registry as "no instrumentation".
func (c Config) Build() *Registry {
	if !c.Enabled {
		return nil
	}
	defaultTarget := c.Registry == nil || c.Registry == prometheus.DefaultRegisterer
	defaultShape := (c.Namespace == "" || c.Namespace == "streamkit") && len(c.Labels) == 0
	if defaultTarget && defaultShape {
		return DefaultRegistry
	}
	return NewRegistryWithConfig(c)
}
