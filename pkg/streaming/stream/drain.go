package stream

import (
	"context"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
)

// ForEach hands every item to fn in order until the stream is Closed. It
// returns nil on Closed, the stream's fault on Errored, fn's first error, or
// ctx.Err().
func ForEach[T any](ctx context.Context, s *Stream[T], fn func(T) error) error {
	if fn == nil {
		return gferrors.NewArgumentError(gferrors.ErrArgumentNil, "stream", "fn", nil, "cannot be nil")
	}
	for {
		if err := s.Wait(ctx); err != nil {
			return err
		}

		items, err := s.ReadBuffer()
		if err != nil {
			if s.IsClosed() {
				return nil
			}
			if fault := s.Err(); fault != nil {
				return fault
			}
			return err
		}

		for _, item := range items {
			if err := fn(item); err != nil {
				return err
			}
		}
	}
}

// Collect reads the stream to completion and returns everything read. On
// error the items read so far are returned alongside it.
func Collect[T any](ctx context.Context, s *Stream[T]) ([]T, error) {
	var out []T
	err := ForEach(ctx, s, func(item T) error {
		out = append(out, item)
		return nil
	})
	return out, err
}
