package timer

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Stop prevents any further invocation. It reports whether the callback
	// was still scheduled. Stop is safe to call from inside the callback.
	Stop() bool
}

// Scheduler is the timer source consumed by streams and bridges.
type Scheduler interface {
	// Now returns the scheduler's notion of the current time.
	Now() time.Time

	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Handle

	// Every runs f repeatedly, every d, until the handle is stopped.
	Every(d time.Duration, f func()) Handle
}

// System returns a Scheduler backed by the runtime timers.
func System() Scheduler {
	return systemScheduler{}
}

type systemScheduler struct{}

func (systemScheduler) Now() time.Time {
	return time.Now()
}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Handle {
	return oneShot{t: time.AfterFunc(d, f)}
}

func (systemScheduler) Every(d time.Duration, f func()) Handle {
	r := &recurring{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go r.run(f)
	return r
}

type oneShot struct {
	t *time.Timer
}

func (o oneShot) Stop() bool {
	return o.t.Stop()
}

// recurring drives f from a ticker on its own goroutine.
type recurring struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (r *recurring) run(f func()) {
	defer r.ticker.Stop()

	for {
		select {
		case <-r.ticker.C:
			// Stop may have raced with the tick.
			select {
			case <-r.done:
				return
			default:
			}
			f()
		case <-r.done:
			return
		}
	}
}

func (r *recurring) Stop() bool {
	stopped := false
	r.once.Do(func() {
		close(r.done)
		stopped = true
	})
	return stopped
}
