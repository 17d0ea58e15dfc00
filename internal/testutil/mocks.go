package testutil

import (
	"bytes"
	"sync"
	"time"

	"github.com/vnykmshr/streamkit/pkg/scheduling/timer"
)

// FakeScheduler is a timer.Scheduler whose clock only moves when Advance is
// called. Due callbacks run synchronously inside Advance, in due-time order,
// on the calling goroutine.
type FakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	s      *FakeScheduler
	due    time.Time
	every  time.Duration
	f      func()
	seq    int
	active bool
}

// NewFakeScheduler creates a FakeScheduler starting at the given time.
// If zero time is provided, uses current time.
func NewFakeScheduler(start time.Time) *FakeScheduler {
	if start.IsZero() {
		start = time.Now()
	}
	return &FakeScheduler{now: start}
}

// Now returns the current fake time.
func (f *FakeScheduler) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// AfterFunc schedules fn to run once when the clock passes d from now.
func (f *FakeScheduler) AfterFunc(d time.Duration, fn func()) timer.Handle {
	return f.add(d, 0, fn)
}

// Every schedules fn to run each time the clock passes another multiple of d.
func (f *FakeScheduler) Every(d time.Duration, fn func()) timer.Handle {
	if d <= 0 {
		panic("testutil: non-positive interval for FakeScheduler.Every")
	}
	return f.add(d, d, fn)
}

func (f *FakeScheduler) add(d, every time.Duration, fn func()) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ft := &fakeTimer{
		s:      f,
		due:    f.now.Add(d),
		every:  every,
		f:      fn,
		seq:    f.seq,
		active: true,
	}
	f.timers = append(f.timers, ft)
	return ft
}

// Advance moves the clock forward by d, firing every callback that comes due.
func (f *FakeScheduler) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	for {
		next := f.nextDueLocked(target)
		if next == nil {
			break
		}
		f.now = next.due
		if next.every > 0 {
			next.due = next.due.Add(next.every)
		} else {
			next.active = false
		}

		fn := next.f
		f.mu.Unlock()
		fn()
		f.mu.Lock()
	}

	f.now = target
	f.pruneLocked()
	f.mu.Unlock()
}

// Pending returns the number of timers that are still scheduled.
func (f *FakeScheduler) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ft := range f.timers {
		if ft.active {
			n++
		}
	}
	return n
}

func (f *FakeScheduler) nextDueLocked(limit time.Time) *fakeTimer {
	var next *fakeTimer
	for _, ft := range f.timers {
		if !ft.active || ft.due.After(limit) {
			continue
		}
		if next == nil || ft.due.Before(next.due) || (ft.due.Equal(next.due) && ft.seq < next.seq) {
			next = ft
		}
	}
	return next
}

func (f *FakeScheduler) pruneLocked() {
	kept := f.timers[:0]
	for _, ft := range f.timers {
		if ft.active {
			kept = append(kept, ft)
		}
	}
	for i := len(kept); i < len(f.timers); i++ {
		f.timers[i] = nil
	}
	f.timers = kept
}

// Stop implements timer.Handle.
func (ft *fakeTimer) Stop() bool {
	ft.s.mu.Lock()
	defer ft.s.mu.Unlock()
	was := ft.active
	ft.active = false
	return was
}

// MockWriter is a test writer that can simulate various write conditions
// including delays, errors, and write counting.
type MockWriter struct {
	buf         *bytes.Buffer
	mu          sync.Mutex
	writeDelay  time.Duration
	writeCount  int
	shouldError bool
	err         error
}

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		buf: &bytes.Buffer{},
	}
}

// Write implements io.Writer interface with configurable behavior.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	mw.writeCount++

	if mw.writeDelay > 0 {
		time.Sleep(mw.writeDelay)
	}

	if mw.shouldError {
		return 0, mw.err
	}

	return mw.buf.Write(p)
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// Len returns the current buffer length.
func (mw *MockWriter) Len() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.Len()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}

// SetWriteDelay configures a delay for each write operation.
func (mw *MockWriter) SetWriteDelay(delay time.Duration) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writeDelay = delay
}

// SetAlwaysError configures the writer to always return the given error.
func (mw *MockWriter) SetAlwaysError(err error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.shouldError = true
	mw.err = err
}
