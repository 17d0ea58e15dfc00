package bridge

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// EndOfStream is pushed by a Sink with MarkEnd set once its stream closes.
// A Pump that pops it closes its own stream.
const EndOfStream = "\x00streamkit:eos"

// ListPusher is the part of a Redis client a Sink uses. *redis.Client and
// redis.UniversalClient satisfy it.
type ListPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// ListPopper is the part of a Redis client a Pump uses.
type ListPopper interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// RedisError represents a Redis operation error.
type RedisError struct {
	Operation string
	Key       string
	Err       error
}

func (e *RedisError) Error() string {
	return "redis error in " + e.Operation + " on " + e.Key + ": " + e.Err.Error()
}

func (e *RedisError) Unwrap() error {
	return e.Err
}
