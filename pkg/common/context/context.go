// Package context holds small helpers for waiting on results under a context.
package context

import (
	"context"
)

// Await waits for the single result delivered on done, or for ctx to end,
// whichever comes first.
func Await(ctx context.Context, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
