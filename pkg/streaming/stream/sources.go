package stream

import (
	"context"
	"time"

	streamctx "github.com/vnykmshr/streamkit/pkg/common/context"
	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
)

// FromSlice creates a stream holding items with its close already
// requested. A zero cfg.MaxBufferSize is sized to fit items.
func FromSlice[T any](items []T, cfg Config[T]) (*Stream[T], error) {
	if cfg.MaxBufferSize == 0 {
		cfg.MaxBufferSize = max(len(items), 1)
	}

	s, err := NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Write(items...); err != nil {
		return nil, err
	}
	return s, s.Close()
}

// Feed copies values from ch into s with WriteAsync until ch is closed, then
// requests close. writeTimeout bounds each item's wait for space; zero waits
// indefinitely. If ctx ends first, Feed returns ctx.Err() without closing s
// and any write still pending resolves on its own deadline.
func Feed[T any](ctx context.Context, s *Stream[T], ch <-chan T, writeTimeout time.Duration) error {
	if ch == nil {
		return gferrors.NewArgumentError(gferrors.ErrArgumentNil, "stream", "ch", nil, "cannot be nil").
			WithHint("a nil channel never yields and never closes")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-ch:
			if !ok {
				return s.Close()
			}
			done, err := s.WriteAsync(writeTimeout, v)
			if err != nil {
				return err
			}
			if err := streamctx.Await(ctx, done); err != nil {
				return err
			}
		}
	}
}
