package streamio

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	streamctx "github.com/vnykmshr/streamkit/pkg/common/context"
	"github.com/vnykmshr/streamkit/pkg/codec/utfconv"
	"github.com/vnykmshr/streamkit/pkg/metrics"
	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
)

// Stats holds statistics about writer performance.
type Stats struct {
	// BytesWritten is the total number of bytes buffered into the stream.
	BytesWritten int64

	// WriteCount is the total number of successful write operations.
	WriteCount int64

	// ErrorCount is the total number of failed write operations.
	ErrorCount int64

	// AverageWriteTime is the average time a write waited for buffer space.
	AverageWriteTime time.Duration

	// TotalWriteTime is the total time spent writing.
	TotalWriteTime time.Duration

	// LastWriteTime is the timestamp of the last write operation.
	LastWriteTime time.Time
}

// WriterConfig holds configuration options for Writer.
type WriterConfig struct {
	// WriteTimeout bounds how long one write may wait for buffer space.
	// Zero waits indefinitely. Exceeding it moves the stream to Errored.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// OnError is called when a write fails.
	OnError func(error)

	// Logger receives write failures. Nil means logrus.StandardLogger().
	Logger logrus.FieldLogger

	// Metrics counts written bytes when non-nil.
	Metrics *metrics.Registry
}

// DefaultWriterConfig returns a default configuration.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		WriteTimeout: 5 * time.Second,
	}
}

// Writer adapts a byte stream to io.Writer. Each write waits until every
// byte is buffered, so a slow reader throttles the writer.
type Writer struct {
	s      *stream.Stream[byte]
	config WriterConfig
	log    logrus.FieldLogger
	closed int32 // atomic

	stats   Stats
	statsMu sync.Mutex
}

// NewWriter creates a Writer with default configuration.
func NewWriter(s *stream.Stream[byte]) *Writer {
	return NewWriterWithConfig(s, DefaultWriterConfig())
}

// NewWriterWithConfig creates a Writer with the specified configuration.
func NewWriterWithConfig(s *stream.Stream[byte], config WriterConfig) *Writer {
	if config.WriteTimeout < 0 {
		config.WriteTimeout = DefaultWriterConfig().WriteTimeout
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	return &Writer{
		s:      s,
		config: config,
		log:    config.Logger.WithFields(logrus.Fields{"stream": s.Name(), "component": "streamio.Writer"}),
	}
}

// Write implements io.Writer. On failure n is zero even though a prefix of
// p may already be buffered.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.WriteContext(context.Background(), p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (w *Writer) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// WriteUTF16 writes code units as UTF-8. It returns the number of UTF-8
// bytes written.
func (w *Writer) WriteUTF16(units []uint16) (int, error) {
	return w.Write(utfconv.UTF16ToUTF8(units))
}

// WriteContext writes p, returning early with ctx.Err() if ctx ends first.
// A write abandoned that way still completes or times out in the stream.
func (w *Writer) WriteContext(ctx context.Context, p []byte) error {
	if w.IsClosed() {
		return gferrors.NewOperationError("streamio", "Write", gferrors.ErrClosed)
	}
	if len(p) == 0 {
		return nil
	}

	start := time.Now()
	done, err := w.s.WriteAsync(w.config.WriteTimeout, p...)
	if err == nil {
		err = streamctx.Await(ctx, done)
	}
	if err != nil {
		w.fail(err)
		return err
	}

	elapsed := time.Since(start)
	w.updateStats(func(s *Stats) {
		s.WriteCount++
		s.BytesWritten += int64(len(p))
		s.TotalWriteTime += elapsed
		s.LastWriteTime = time.Now()
	})
	if w.config.Metrics != nil {
		w.config.Metrics.IOBytes.WithLabelValues("written", w.s.Name()).Add(float64(len(p)))
	}

	return nil
}

// Close requests the stream's close. Buffered bytes stay readable.
func (w *Writer) Close() error {
	if !atomic.CompareAndSwapInt32(&w.closed, 0, 1) {
		return nil // Already closed
	}
	return w.s.Close()
}

// IsClosed returns true if Close has been called.
func (w *Writer) IsClosed() bool {
	return atomic.LoadInt32(&w.closed) != 0
}

// Stats returns statistics about the writer's performance.
func (w *Writer) Stats() Stats {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()

	stats := w.stats
	if stats.WriteCount > 0 {
		stats.AverageWriteTime = time.Duration(int64(stats.TotalWriteTime) / stats.WriteCount)
	}
	return stats
}

func (w *Writer) fail(err error) {
	w.updateStats(func(s *Stats) { s.ErrorCount++ })
	w.log.WithError(err).WithField("terminal", gferrors.IsTerminal(err)).Warn("stream write failed")
	if w.config.OnError != nil {
		w.config.OnError(err)
	}
}

// updateStats safely updates statistics.
func (w *Writer) updateStats(updater func(*Stats)) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	updater(&w.stats)
}
