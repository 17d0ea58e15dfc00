package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	streamctx "github.com/vnykmshr/streamkit/pkg/common/context"
	"github.com/vnykmshr/streamkit/pkg/common/validation"
	"github.com/vnykmshr/streamkit/pkg/metrics"
	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
)

// PumpConfig holds configuration for a Pump.
type PumpConfig struct {
	// Redis supplies the items.
	Redis ListPopper

	// Key is the Redis list items are popped from.
	Key string

	// PopTimeout is how long each BLPOP blocks before polling again.
	PopTimeout time.Duration

	// WriteTimeout bounds how long one item may wait for stream buffer
	// space. Zero waits indefinitely.
	WriteTimeout time.Duration

	// Logger receives progress and failures. Nil means logrus.StandardLogger().
	Logger logrus.FieldLogger

	// Metrics counts pulled items and failures when non-nil.
	Metrics *metrics.Registry
}

// DefaultPumpConfig returns a default pump configuration.
func DefaultPumpConfig() PumpConfig {
	return PumpConfig{
		PopTimeout:   time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Pump feeds a stream from a Redis list.
type Pump[T any] struct {
	config PumpConfig
	log    logrus.FieldLogger
}

// NewPump creates a Pump. Every invalid field is reported at once.
func NewPump[T any](config PumpConfig) (*Pump[T], error) {
	if config.PopTimeout == 0 {
		config.PopTimeout = DefaultPumpConfig().PopTimeout
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
		validation.ValidatePositiveDuration("bridge", "PopTimeout", config.PopTimeout))
	if config.WriteTimeout < 0 {
		result = multierror.Append(result,
			validation.ValidatePositiveDuration("bridge", "WriteTimeout", config.WriteTimeout))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Pump[T]{
		config: config,
		log:    config.Logger.WithFields(logrus.Fields{"component": "bridge.Pump", "key": config.Key}),
	}, nil
}

// Run pops items into s until the list yields EndOfStream, ctx ends, or a
// failure occurs. It always requests s's close before returning, so the
// consumer drains what was delivered. Run returns nil on EndOfStream.
func (p *Pump[T]) Run(ctx context.Context, s *stream.Stream[T]) error {
	defer func() { _ = s.Close() }()

	pulled := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := p.config.Redis.BLPop(ctx, p.config.PopTimeout, p.config.Key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return p.fail(&RedisError{"blpop", p.config.Key, err})
		}
		if len(res) != 2 {
			return p.fail(gferrors.NewOperationError("bridge", "Pump", gferrors.ErrInvalidFormat).
				WithContext(fmt.Sprintf("blpop returned %d values", len(res))))
		}

		payload := res[1]
		if payload == EndOfStream {
			p.log.WithField("pulled", pulled).Debug("pump reached end of stream")
			return nil
		}

		var item T
		if err := msgpack.Unmarshal([]byte(payload), &item); err != nil {
			return p.fail(gferrors.NewOperationError("bridge", "Pump",
				fmt.Errorf("%w: %w", gferrors.ErrInvalidFormat, err)))
		}

		done, err := s.WriteAsync(p.config.WriteTimeout, item)
		if err == nil {
			err = streamctx.Await(ctx, done)
		}
		if err != nil {
			return p.fail(err)
		}

		pulled++
		if p.config.Metrics != nil {
			p.config.Metrics.BridgeItems.WithLabelValues("pull", p.config.Key).Inc()
		}
	}
}

func (p *Pump[T]) fail(err error) error {
	if p.config.Metrics != nil {
		p.config.Metrics.BridgeErrors.WithLabelValues("pull", p.config.Key).Inc()
	}
	p.log.WithError(err).Warn("pump stopped")
	return err
}
