package timer

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule parses a cron expression. Both five and six field forms are
// accepted, as are descriptors such as "@hourly" and "@every 250ms".
func ParseSchedule(expr string) (cron.Schedule, error) {
	if expr == "" {
		return nil, fmt.Errorf("cron expression cannot be empty")
	}
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// OnSchedule runs f at every activation of schedule, measured against s.Now.
// It is built from AfterFunc alone, so fake schedulers drive it as well.
func OnSchedule(s Scheduler, schedule cron.Schedule, f func()) Handle {
	h := &scheduled{s: s, schedule: schedule, f: f}
	h.arm()
	return h
}

type scheduled struct {
	s        Scheduler
	schedule cron.Schedule
	f        func()

	mu      sync.Mutex
	current Handle
	stopped bool
}

func (h *scheduled) arm() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}

	now := h.s.Now()
	next := h.schedule.Next(now)
	if next.IsZero() {
		// Schedule has no further activations.
		h.stopped = true
		return
	}
	h.current = h.s.AfterFunc(next.Sub(now), h.fire)
}

func (h *scheduled) fire() {
	h.mu.Lock()
	stopped := h.stopped
	h.mu.Unlock()
	if stopped {
		return
	}

	h.f()
	h.arm()
}

func (h *scheduled) Stop() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.stopped = true
	if h.current != nil {
		h.current.Stop()
	}
	return true
}
