package stream

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/streamkit/pkg/common/validation"
	"github.com/vnykmshr/streamkit/pkg/metrics"
	"github.com/vnykmshr/streamkit/pkg/scheduling/timer"
)

const (
	// DefaultMaxBufferSize is the buffer capacity used when none is configured.
	DefaultMaxBufferSize = 1024

	// DefaultPollInterval is the data-announce and async-retry period.
	DefaultPollInterval = 20 * time.Millisecond
)

// Config holds configuration for a Stream.
type Config[T any] struct {
	// MaxBufferSize bounds the number of buffered items. Zero means
	// DefaultMaxBufferSize.
	MaxBufferSize int `yaml:"max_buffer_size"`

	// PollInterval drives OnData announcements, close detection and
	// asynchronous write retries. Zero means DefaultPollInterval.
	PollInterval time.Duration `yaml:"poll_interval"`

	// Name labels logs and metrics. Empty means a random UUID.
	Name string `yaml:"name"`

	// OnData is called on each poll tick while the buffer holds data.
	OnData func(*Stream[T]) `yaml:"-"`

	// OnClosed is called once, when the stream reaches Closed.
	OnClosed func(*Stream[T]) `yaml:"-"`

	// OnError is called at most once, when the stream reaches Errored.
	OnError func(*Stream[T]) `yaml:"-"`

	// Validator rejects elements before they are buffered.
	Validator Validator[T] `yaml:"-"`

	// Scheduler supplies timers. Nil means timer.System().
	Scheduler timer.Scheduler `yaml:"-"`

	// Logger receives lifecycle and fault events. Nil means logrus.StandardLogger().
	Logger logrus.FieldLogger `yaml:"-"`

	// Metrics enables Prometheus instrumentation when non-nil.
	Metrics *metrics.Registry `yaml:"-"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig[T any]() Config[T] {
	return Config[T]{
		MaxBufferSize: DefaultMaxBufferSize,
		PollInterval:  DefaultPollInterval,
	}
}

// Validate reports every invalid field. Zero values are accepted and
// replaced by defaults at construction.
func (c Config[T]) Validate() error {
	var result *multierror.Error

	if c.MaxBufferSize < 0 {
		result = multierror.Append(result,
			validation.ValidatePositive("stream", "MaxBufferSize", c.MaxBufferSize))
	}
	if c.PollInterval < 0 {
		result = multierror.Append(result,
			validation.ValidatePositiveDuration("stream", "PollInterval", c.PollInterval))
	}

	return result.ErrorOrNil()
}

// Evented reports whether any callback is configured.
func (c Config[T]) Evented() bool {
	return c.OnData != nil || c.OnClosed != nil || c.OnError != nil
}

func (c Config[T]) withDefaults() Config[T] {
	if c.MaxBufferSize == 0 {
		c.MaxBufferSize = DefaultMaxBufferSize
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Scheduler == nil {
		c.Scheduler = timer.System()
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}
