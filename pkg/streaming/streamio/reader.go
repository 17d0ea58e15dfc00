package streamio

import (
	"context"
	"io"

	"github.com/vnykmshr/streamkit/pkg/metrics"
	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
)

// Reader adapts a byte stream to io.Reader. Read blocks until data arrives,
// returns io.EOF once the stream is Closed, and the stream's fault once it
// is Errored. A Reader must be the stream's only consumer.
type Reader struct {
	s       *stream.Stream[byte]
	pending []byte
	metrics *metrics.Registry
}

// NewReader creates a Reader over s.
func NewReader(s *stream.Stream[byte]) *Reader {
	return &Reader{s: s}
}

// WithMetrics counts read bytes in reg and returns r.
func (r *Reader) WithMetrics(reg *metrics.Registry) *Reader {
	r.metrics = reg
	return r
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	return r.ReadContext(context.Background(), p)
}

// ReadContext reads like Read but gives up with ctx.Err() when ctx ends.
func (r *Reader) ReadContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(r.pending) == 0 {
		if err := r.s.Wait(ctx); err != nil {
			return 0, err
		}

		items, err := r.s.ReadBuffer()
		if err != nil {
			if r.s.IsClosed() {
				return 0, io.EOF
			}
			if fault := r.s.Err(); fault != nil {
				return 0, fault
			}
			return 0, err
		}
		r.pending = items
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	if r.metrics != nil {
		r.metrics.IOBytes.WithLabelValues("read", r.s.Name()).Add(float64(n))
	}
	return n, nil
}

// Pipe creates a byte stream from cfg and returns both ends of it.
func Pipe(cfg stream.Config[byte]) (*Reader, *Writer, error) {
	s, err := stream.NewBytes(cfg)
	if err != nil {
		return nil, nil, err
	}

	wcfg := DefaultWriterConfig()
	wcfg.Logger = cfg.Logger
	wcfg.Metrics = cfg.Metrics

	return NewReader(s).WithMetrics(cfg.Metrics), NewWriterWithConfig(s, wcfg), nil
}
