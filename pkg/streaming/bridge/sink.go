package bridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	"github.com/vnykmshr/streamkit/pkg/common/validation"
	"github.com/vnykmshr/streamkit/pkg/metrics"
	"github.com/vnykmshr/streamkit/pkg/scheduling/timer"
	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
)

// SinkConfig holds configuration for a Sink.
type SinkConfig struct {
	// Redis receives the pushed items.
	Redis ListPusher

	// Key is the Redis list items are appended to.
	Key string

	// RedisTimeout bounds each RPUSH.
	RedisTimeout time.Duration

	// FlushSchedule is the cron expression pacing Start. Sub-second
	// "@every" intervals round up to one second.
	FlushSchedule string

	// MarkEnd pushes EndOfStream after the stream closes.
	MarkEnd bool

	// Logger receives push failures. Nil means logrus.StandardLogger().
	Logger logrus.FieldLogger

	// Metrics counts pushed items and failures when non-nil.
	Metrics *metrics.Registry
}

// DefaultSinkConfig returns a default sink configuration.
func DefaultSinkConfig() SinkConfig {
	return SinkConfig{
		RedisTimeout:  500 * time.Millisecond,
		FlushSchedule: "@every 1s",
	}
}

// Sink drains a stream into a Redis list, one msgpack-encoded element per
// item. It is fed either by stream callbacks (Bind) or by a cron schedule
// (Start). Push failures do not stop the sink; they are collected and
// reported by Err.
type Sink[T any] struct {
	config   SinkConfig
	schedule cron.Schedule
	log      logrus.FieldLogger

	mu     sync.Mutex
	errs   *multierror.Error
	handle timer.Handle
	pushed atomic.Int64

	done     chan struct{}
	doneOnce sync.Once
}

// NewSink creates a Sink. Every invalid field is reported at once.
func NewSink[T any](config SinkConfig) (*Sink[T], error) {
	defaults := DefaultSinkConfig()
	if config.RedisTimeout == 0 {
		config.RedisTimeout = defaults.RedisTimeout
	}
	if config.FlushSchedule == "" {
		config.FlushSchedule = defaults.FlushSchedule
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	var result *multierror.Error
	if config.Redis == nil {
		result = multierror.Append(result, validation.ValidateNotNil("bridge", "Redis", nil))
	}
	result = multierror.Append(result,
		validation.ValidateNotEmpty("bridge", "Key", config.Key),
		validation.ValidatePositiveDuration("bridge", "RedisTimeout", config.RedisTimeout))

	schedule, err := timer.ParseSchedule(config.FlushSchedule)
	if err != nil {
		result = multierror.Append(result,
			gferrors.NewValidationError("bridge", "FlushSchedule", config.FlushSchedule, err.Error()).
				WithHint(`use a cron expression such as "@every 1s" or "*/5 * * * * *"`))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Sink[T]{
		config:   config,
		schedule: schedule,
		log:      config.Logger.WithFields(logrus.Fields{"component": "bridge.Sink", "key": config.Key}),
		done:     make(chan struct{}),
	}, nil
}

// Bind installs callbacks on cfg so the stream pushes to Redis on every data
// announcement and the sink finishes with the stream. Callbacks already in
// cfg still run after the sink's.
func (k *Sink[T]) Bind(cfg *stream.Config[T]) {
	onData, onClosed, onError := cfg.OnData, cfg.OnClosed, cfg.OnError

	cfg.OnData = func(s *stream.Stream[T]) {
		k.flush(s)
		if onData != nil {
			onData(s)
		}
	}
	cfg.OnClosed = func(s *stream.Stream[T]) {
		k.finish(s)
		if onClosed != nil {
			onClosed(s)
		}
	}
	cfg.OnError = func(s *stream.Stream[T]) {
		k.finish(s)
		if onError != nil {
			onError(s)
		}
	}
}

// Start drains s on the sink's FlushSchedule until s reaches a terminal
// state. The stream must not have another consumer.
func (k *Sink[T]) Start(s *stream.Stream[T], sched timer.Scheduler) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.handle != nil {
		return
	}
	k.handle = timer.OnSchedule(sched, k.schedule, func() {
		k.flush(s)
		if s.State().Terminal() {
			k.finish(s)
		}
	})
}

// Done is closed once the stream has ended and the sink has stopped.
func (k *Sink[T]) Done() <-chan struct{} {
	return k.done
}

// Err returns every failure collected so far, or nil.
func (k *Sink[T]) Err() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.errs.ErrorOrNil()
}

// Pushed returns the number of items appended to the Redis list.
func (k *Sink[T]) Pushed() int64 {
	return k.pushed.Load()
}

// flush moves whatever is buffered to Redis.
func (k *Sink[T]) flush(s *stream.Stream[T]) {
	items, err := s.ReadBuffer()
	if err != nil || len(items) == 0 {
		return
	}

	values := make([]interface{}, 0, len(items))
	for i, item := range items {
		b, err := msgpack.Marshal(item)
		if err != nil {
			k.record(fmt.Errorf("encode item %d: %w", i, err), 1)
			continue
		}
		values = append(values, b)
	}
	if len(values) == 0 {
		return
	}

	if err := k.push(values...); err != nil {
		k.record(err, len(values))
		return
	}
	k.pushed.Add(int64(len(values)))
	if k.config.Metrics != nil {
		k.config.Metrics.BridgeItems.WithLabelValues("push", k.config.Key).Add(float64(len(values)))
	}
}

func (k *Sink[T]) push(values ...interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), k.config.RedisTimeout)
	defer cancel()

	if err := k.config.Redis.RPush(ctx, k.config.Key, values...).Err(); err != nil {
		return &RedisError{"rpush", k.config.Key, err}
	}
	return nil
}

// finish stops the schedule and marks the sink done. A stream that ended in
// Errored contributes its fault to Err.
func (k *Sink[T]) finish(s *stream.Stream[T]) {
	k.doneOnce.Do(func() {
		k.mu.Lock()
		if k.handle != nil {
			k.handle.Stop()
		}
		k.mu.Unlock()

		if fault := s.Err(); fault != nil {
			k.record(fault, 0)
		} else if k.config.MarkEnd {
			if err := k.push(EndOfStream); err != nil {
				k.record(err, 1)
			}
		}

		k.log.WithField("pushed", k.Pushed()).Debug("sink finished")
		close(k.done)
	})
}

func (k *Sink[T]) record(err error, lost int) {
	k.mu.Lock()
	k.errs = multierror.Append(k.errs, err)
	k.mu.Unlock()

	if k.config.Metrics != nil {
		k.config.Metrics.BridgeErrors.WithLabelValues("push", k.config.Key).Inc()
	}
	k.log.WithError(err).WithField("lost", lost).Warn("sink push failed")
}
