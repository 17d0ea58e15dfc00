package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	"github.com/vnykmshr/streamkit/pkg/scheduling/timer"
)

// Stats holds statistics about stream activity.
type Stats struct {
	// WriteCount is the number of accepted Write calls.
	WriteCount int64

	// ReadCount is the number of Read and ReadBuffer calls that returned data.
	ReadCount int64

	// ItemsWritten is the number of items buffered, synchronously or not.
	ItemsWritten int64

	// ItemsRead is the number of items handed to the consumer.
	ItemsRead int64

	// AsyncWrites is the number of accepted WriteAsync calls.
	AsyncWrites int64

	// Overruns counts synchronous writes that hit the buffer limit.
	Overruns int64

	// Timeouts counts asynchronous writes that missed their deadline.
	Timeouts int64

	// BufferUtilization is the current buffer utilization (0.0 to 1.0).
	BufferUtilization float64

	// LastWriteTime is the scheduler time of the last buffered item.
	LastWriteTime time.Time

	// LastReadTime is the scheduler time of the last successful read.
	LastReadTime time.Time
}

// Stream is a bounded, one-time FIFO between a single producer and a single
// consumer. Consumers either poll (HasData, Read, ReadBuffer) or register
// callbacks in Config. All methods are safe for concurrent use; callbacks run
// without the stream's lock held and may call back into the stream.
type Stream[T any] struct {
	name     string
	poll     time.Duration
	validate Validator[T]
	sched    timer.Scheduler
	log      logrus.FieldLogger
	metrics  *instruments

	mu       sync.Mutex
	buf      ring[T]
	state    State
	err      error
	onData   func(*Stream[T])
	onClosed func(*Stream[T])
	onError  func(*Stream[T])
	announce timer.Handle
	pending  map[*asyncWrite[T]]struct{}
	changed  chan struct{}
	stats    Stats
}

// New creates a Stream with the given buffer size and default configuration.
func New[T any](maxBufferSize int) (*Stream[T], error) {
	cfg := DefaultConfig[T]()
	cfg.MaxBufferSize = maxBufferSize
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Stream with the specified configuration. If any
// callback is set the announce timer starts immediately; otherwise it starts
// when Close is called.
func NewWithConfig[T any](cfg Config[T]) (*Stream[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	name := cfg.Name
	if name == "" {
		name = uuid.NewString()
	}

	s := &Stream[T]{
		name:     name,
		poll:     cfg.PollInterval,
		validate: cfg.Validator,
		sched:    cfg.Scheduler,
		log:      cfg.Logger.WithField("stream", name),
		metrics:  newInstruments(cfg.Metrics, name, cfg.MaxBufferSize),
		buf:      newRing[T](cfg.MaxBufferSize),
		state:    Ready,
		onData:   cfg.OnData,
		onClosed: cfg.OnClosed,
		onError:  cfg.OnError,
		pending:  make(map[*asyncWrite[T]]struct{}),
		changed:  make(chan struct{}),
	}

	if cfg.Evented() {
		s.mu.Lock()
		s.announce = s.sched.Every(s.poll, s.tick)
		s.mu.Unlock()
	}

	s.log.WithFields(logrus.Fields{
		"capacity": cfg.MaxBufferSize,
		"evented":  cfg.Evented(),
	}).Debug("stream created")

	return s, nil
}

// Write appends items synchronously. Every item is validated before any is
// buffered. Items are appended one at a time; if the buffer fills up, those
// already appended stay buffered, the rest are rejected, the stream moves to
// Errored, OnError runs, and an error wrapping ErrBufferOverrun is returned.
func (s *Stream[T]) Write(items ...T) error {
	s.metrics.operation("write")

	if err := s.checkItems(items); err != nil {
		s.metrics.fault("invalid_type")
		return err
	}

	s.mu.Lock()
	if s.state != Ready {
		err := s.stateErrorLocked("Write")
		s.mu.Unlock()
		s.metrics.fault("invalid_operation")
		return err
	}

	s.stats.WriteCount++
	written := 0
	var fault *gferrors.OperationError
	for i, item := range items {
		if s.buf.full() {
			fault = gferrors.NewOperationError("stream", "Write", gferrors.ErrBufferOverrun).
				WithContext(fmt.Sprintf("stream %s: capacity %d reached at item %d of %d",
					s.name, s.buf.cap(), i, len(items)))
			break
		}
		s.buf.push(item)
		written++
	}
	s.recordWrittenLocked(written)

	if fault == nil {
		s.mu.Unlock()
		return nil
	}

	s.stats.Overruns++
	s.metrics.fault("overrun")
	run := s.failLocked(fault)
	s.mu.Unlock()
	run()
	return fault
}

// Read pops the oldest item. ok is false when the buffer is empty. An empty
// read on a stream whose close was requested, with no asynchronous writes
// outstanding, completes the transition to Closed.
func (s *Stream[T]) Read() (item T, ok bool, err error) {
	s.metrics.operation("read")

	s.mu.Lock()
	if s.state.Terminal() {
		err = s.stateErrorLocked("Read")
		s.mu.Unlock()
		return item, false, err
	}

	if s.buf.len() == 0 {
		run := s.settleLocked()
		s.mu.Unlock()
		run()
		return item, false, nil
	}

	item = s.buf.pop()
	s.recordReadLocked(1)
	s.mu.Unlock()
	return item, true, nil
}

// ReadBuffer returns and clears everything buffered. It fails and settles
// like Read.
func (s *Stream[T]) ReadBuffer() ([]T, error) {
	s.metrics.operation("read_buffer")

	s.mu.Lock()
	if s.state.Terminal() {
		err := s.stateErrorLocked("ReadBuffer")
		s.mu.Unlock()
		return nil, err
	}

	if s.buf.len() == 0 {
		run := s.settleLocked()
		s.mu.Unlock()
		run()
		return nil, nil
	}

	items := s.buf.drain()
	s.recordReadLocked(len(items))
	s.mu.Unlock()
	return items, nil
}

// Close requests closing. New writes are rejected at once; the stream
// reaches Closed after the buffer and pending asynchronous writes drain.
// Close is a no-op unless the stream is Ready, and always returns nil.
func (s *Stream[T]) Close() error {
	s.metrics.operation("close")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Ready {
		return nil
	}

	s.state = RequestForClose
	if s.announce == nil {
		s.announce = s.sched.Every(s.poll, s.tick)
	}
	s.signalLocked()
	s.observeLocked()

	s.log.WithFields(logrus.Fields{
		"buffered": s.buf.len(),
		"pending":  len(s.pending),
	}).Debug("stream close requested")

	return nil
}

// Wait blocks until the stream has data, can be settled by a read, or has
// reached a terminal state.
func (s *Stream[T]) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.buf.len() > 0 || s.state.Terminal() || s.drainableLocked() {
			s.mu.Unlock()
			return nil
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// CanRead reports whether Read would return an item.
func (s *Stream[T]) CanRead() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.state.Terminal() && s.buf.len() > 0
}

// CanWrite reports whether writes are accepted.
func (s *Stream[T]) CanWrite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Ready
}

// HasData reports whether readable items are buffered.
func (s *Stream[T]) HasData() bool {
	return s.CanRead()
}

// HasError reports whether the stream is in the Errored state.
func (s *Stream[T]) HasError() bool {
	return s.State() == Errored
}

// IsClosed reports whether the stream reached Closed.
func (s *Stream[T]) IsClosed() bool {
	return s.State() == Closed
}

// FreeBufferSize returns the number of items that fit without overrun.
func (s *Stream[T]) FreeBufferSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.free()
}

// Len returns the number of buffered items.
func (s *Stream[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.len()
}

// Cap returns the buffer capacity.
func (s *Stream[T]) Cap() int {
	return s.buf.cap()
}

// State returns the current lifecycle state.
func (s *Stream[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the fault that moved the stream to Errored, or nil.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Name returns the stream's label.
func (s *Stream[T]) Name() string {
	return s.name
}

// Buffered returns a copy of the buffered items without consuming them.
// After a fault it shows what the buffer held when the stream stopped.
func (s *Stream[T]) Buffered() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.snapshot()
}

// Stats returns stream statistics.
func (s *Stream[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	if s.buf.cap() > 0 {
		stats.BufferUtilization = float64(s.buf.len()) / float64(s.buf.cap())
	}
	return stats
}

// tick runs every poll interval while the announce timer is live.
func (s *Stream[T]) tick() {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	if s.drainableLocked() {
		run := s.closeLocked()
		s.mu.Unlock()
		run()
		return
	}
	onData := s.onData
	hasData := s.buf.len() > 0
	s.mu.Unlock()

	if hasData && onData != nil {
		onData(s)
	}
}

func (s *Stream[T]) drainableLocked() bool {
	return s.state == RequestForClose && s.buf.len() == 0 && len(s.pending) == 0
}

// settleLocked closes the stream if it is drainable. The returned function
// must run after the lock is released.
func (s *Stream[T]) settleLocked() func() {
	if s.drainableLocked() {
		return s.closeLocked()
	}
	return func() {}
}

func (s *Stream[T]) closeLocked() func() {
	s.state = Closed
	s.stopAnnounceLocked()
	onClosed := s.onClosed
	s.releaseCallbacksLocked()
	s.signalLocked()
	s.observeLocked()

	s.log.WithField("items_read", s.stats.ItemsRead).Debug("stream closed")

	return func() {
		if onClosed != nil {
			onClosed(s)
		}
	}
}

// failLocked moves the stream to Errored. Pending asynchronous writes are
// resolved with ErrInvalidOperation and OnError runs, both once the caller
// releases the lock and invokes the returned function.
func (s *Stream[T]) failLocked(err error) func() {
	if s.state.Terminal() {
		return func() {}
	}

	from := s.state
	s.state = Errored
	s.err = err
	s.stopAnnounceLocked()
	orphaned := s.abandonPendingLocked()
	onError := s.onError
	s.releaseCallbacksLocked()
	s.signalLocked()
	s.observeLocked()

	s.log.WithFields(logrus.Fields{
		"from":     from.String(),
		"buffered": s.buf.len(),
		"orphaned": len(orphaned),
	}).WithError(err).Warn("stream errored")

	return func() {
		for _, w := range orphaned {
			w.resolve(gferrors.NewOperationError("stream", "WriteAsync", gferrors.ErrInvalidOperation).
				WithContext(fmt.Sprintf("stream %s errored while the write was pending", s.name)))
		}
		if onError != nil {
			onError(s)
		}
	}
}

func (s *Stream[T]) stopAnnounceLocked() {
	if s.announce != nil {
		s.announce.Stop()
		s.announce = nil
	}
}

func (s *Stream[T]) releaseCallbacksLocked() {
	s.onData = nil
	s.onClosed = nil
	s.onError = nil
}

// signalLocked wakes every Wait caller.
func (s *Stream[T]) signalLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Stream[T]) observeLocked() {
	s.metrics.observe(s.state, s.buf.len(), len(s.pending))
}

func (s *Stream[T]) recordWrittenLocked(n int) {
	if n > 0 {
		s.stats.ItemsWritten += int64(n)
		s.stats.LastWriteTime = s.sched.Now()
		s.metrics.items("written", n)
		s.signalLocked()
	}
	s.observeLocked()
}

func (s *Stream[T]) recordReadLocked(n int) {
	s.stats.ReadCount++
	s.stats.ItemsRead += int64(n)
	s.stats.LastReadTime = s.sched.Now()
	s.metrics.items("read", n)
	s.observeLocked()
}

func (s *Stream[T]) stateErrorLocked(op string) error {
	cause := gferrors.ErrInvalidOperation
	if s.state == Closed {
		cause = fmt.Errorf("%w: %w", gferrors.ErrInvalidOperation, gferrors.ErrClosed)
	}
	return gferrors.NewOperationError("stream", op, cause).
		WithContext(fmt.Sprintf("stream %s is %s", s.name, s.state))
}
