package stream

import (
	"time"

	"github.com/vnykmshr/streamkit/pkg/metrics"
)

// instruments binds a metrics.Registry to one stream name. A nil
// *instruments records nothing.
type instruments struct {
	reg  *metrics.Registry
	name string
}

func newInstruments(reg *metrics.Registry, name string, capacity int) *instruments {
	if reg == nil {
		return nil
	}
	m := &instruments{reg: reg, name: name}
	reg.StreamBufferSize.WithLabelValues(name).Set(float64(capacity))
	m.observe(Ready, 0, 0)
	return m
}

func (m *instruments) operation(op string) {
	if m == nil {
		return
	}
	m.reg.StreamOperations.WithLabelValues(op, m.name).Inc()
}

func (m *instruments) items(direction string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.reg.StreamItems.WithLabelValues(direction, m.name).Add(float64(n))
}

func (m *instruments) fault(kind string) {
	if m == nil {
		return
	}
	m.reg.StreamErrors.WithLabelValues(kind, m.name).Inc()
}

func (m *instruments) observe(state State, buffered, pending int) {
	if m == nil {
		return
	}
	m.reg.StreamState.WithLabelValues(m.name).Set(float64(state))
	m.reg.StreamBufferUsage.WithLabelValues(m.name).Set(float64(buffered))
	m.reg.AsyncWritesPending.WithLabelValues(m.name).Set(float64(pending))
}

func (m *instruments) asyncResolved(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reg.AsyncWriteDuration.WithLabelValues(m.name, outcome).Observe(elapsed.Seconds())
}
