package stream

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	"github.com/vnykmshr/streamkit/pkg/scheduling/timer"
)

// asyncWrite is one WriteAsync call waiting for buffer space.
type asyncWrite[T any] struct {
	items    []T
	done     chan error
	retry    timer.Handle
	deadline timer.Handle
	started  time.Time
}

func (w *asyncWrite[T]) stopTimers() {
	if w.retry != nil {
		w.retry.Stop()
	}
	if w.deadline != nil {
		w.deadline.Stop()
	}
}

// resolve delivers the outcome. It is called exactly once per write.
func (w *asyncWrite[T]) resolve(err error) {
	w.done <- err
}

// WriteAsync appends items as buffer space becomes available. Validation
// failures and writes on a stream that is not Ready are reported through the
// returned error. Otherwise the channel receives exactly one value: nil once
// every item is buffered, an error wrapping ErrTimeout if timeout (when
// positive) elapses first, or one wrapping ErrInvalidOperation if the stream
// fails while the write is pending. A timeout moves the stream to Errored.
//
// Items of one call are buffered in order. Concurrent asynchronous writes are
// not ordered relative to each other or to Write.
func (s *Stream[T]) WriteAsync(timeout time.Duration, items ...T) (<-chan error, error) {
	s.metrics.operation("write_async")

	if timeout < 0 {
		return nil, gferrors.NewArgumentError(gferrors.ErrArgumentOutOfRange, "stream", "timeout", timeout,
			"cannot be negative").WithHint("use 0 to wait without a deadline")
	}
	if err := s.checkItems(items); err != nil {
		s.metrics.fault("invalid_type")
		return nil, err
	}

	s.mu.Lock()
	if s.state != Ready {
		err := s.stateErrorLocked("WriteAsync")
		s.mu.Unlock()
		s.metrics.fault("invalid_operation")
		return nil, err
	}

	s.stats.AsyncWrites++
	w := &asyncWrite[T]{
		items:   append([]T(nil), items...),
		done:    make(chan error, 1),
		started: s.sched.Now(),
	}

	s.fillLocked(w)
	if len(w.items) == 0 {
		s.mu.Unlock()
		s.metrics.asyncResolved("ok", 0)
		w.resolve(nil)
		return w.done, nil
	}

	s.pending[w] = struct{}{}
	w.retry = s.sched.Every(s.poll, func() { s.retryAsync(w) })
	if timeout > 0 {
		w.deadline = s.sched.AfterFunc(timeout, func() { s.expireAsync(w, timeout) })
	}
	s.observeLocked()

	s.log.WithFields(logrus.Fields{
		"waiting": len(w.items),
		"timeout": timeout,
	}).Debug("async write waiting for buffer space")

	s.mu.Unlock()
	return w.done, nil
}

// fillLocked moves as many of w's items into the buffer as fit.
func (s *Stream[T]) fillLocked(w *asyncWrite[T]) {
	n := min(s.buf.free(), len(w.items))
	for _, item := range w.items[:n] {
		s.buf.push(item)
	}
	w.items = w.items[n:]
	s.recordWrittenLocked(n)
}

func (s *Stream[T]) retryAsync(w *asyncWrite[T]) {
	s.mu.Lock()
	if _, ok := s.pending[w]; !ok {
		s.mu.Unlock()
		return
	}

	s.fillLocked(w)
	if len(w.items) > 0 {
		s.mu.Unlock()
		return
	}

	delete(s.pending, w)
	w.stopTimers()
	elapsed := s.sched.Now().Sub(w.started)
	s.signalLocked()
	s.observeLocked()
	s.mu.Unlock()

	s.metrics.asyncResolved("ok", elapsed)
	w.resolve(nil)
}

func (s *Stream[T]) expireAsync(w *asyncWrite[T], timeout time.Duration) {
	s.mu.Lock()
	if _, ok := s.pending[w]; !ok {
		s.mu.Unlock()
		return
	}

	delete(s.pending, w)
	w.stopTimers()
	elapsed := s.sched.Now().Sub(w.started)

	err := gferrors.NewOperationError("stream", "WriteAsync", gferrors.ErrTimeout).
		WithContext(fmt.Sprintf("stream %s: %d items unwritten after %s", s.name, len(w.items), timeout))
	s.stats.Timeouts++
	s.metrics.fault("timeout")

	run := s.failLocked(err)
	s.mu.Unlock()

	s.metrics.asyncResolved("timeout", elapsed)
	w.resolve(err)
	run()
}

// abandonPendingLocked stops and unregisters every pending write and
// returns them for resolution outside the lock.
func (s *Stream[T]) abandonPendingLocked() []*asyncWrite[T] {
	if len(s.pending) == 0 {
		return nil
	}
	orphaned := make([]*asyncWrite[T], 0, len(s.pending))
	now := s.sched.Now()
	for w := range s.pending {
		w.stopTimers()
		delete(s.pending, w)
		s.metrics.asyncResolved("abandoned", now.Sub(w.started))
		orphaned = append(orphaned, w)
	}
	return orphaned
}
