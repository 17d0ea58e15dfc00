// Package metrics provides Prometheus instrumentation for streamkit components.
//
// Instrumentation is opt-in. Streams, bridges and io adapters accept a
// *Registry in their configuration and record nothing when it is nil.
//
// # Quick Start
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//
//	s, err := stream.NewWithConfig(stream.Config[int]{
//		Name:    "ingest",
//		Metrics: reg,
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Available Metrics
//
// ## Stream Metrics
//
//   - streamkit_stream_operations_total: Stream operations by name (write, write_async, read, read_buffer, close)
//   - streamkit_stream_items_total: Items written and read
//   - streamkit_stream_errors_total: Faults by kind (overrun, timeout, invalid_operation, invalid_type)
//   - streamkit_stream_buffer_size: Buffer capacity
//   - streamkit_stream_buffer_usage: Buffered item count
//   - streamkit_stream_state: Current state as a number
//   - streamkit_stream_async_writes_pending: Asynchronous writes still waiting for space
//   - streamkit_stream_async_write_duration_seconds: Asynchronous write latency by outcome
//
// ## Bridge Metrics
//
//   - streamkit_bridge_items_total: Items pushed to or pulled from Redis
//   - streamkit_bridge_errors_total: Redis and encoding failures
//
// ## IO Adapter Metrics
//
//   - streamkit_io_bytes_total: Bytes written to or read from byte streams
//
// # Configuration
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.NewRegistry(),
//		Namespace: "myapp",                             // Override default "streamkit"
//		Labels:    prometheus.Labels{"version": "1.0"}, // Added to every metric
//	}
//	reg := config.Build() // nil when Enabled is false
package metrics
