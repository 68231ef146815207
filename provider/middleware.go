package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// Limit bounds the number of in-flight calls to p. Callers waiting for a slot
// give up when their context ends.
func Limit(p Provider, n int64) Provider {
	if n <= 0 {
		return p
	}
	sem := semaphore.NewWeighted(n)
	return Func(func(ctx context.Context, req Request) (string, error) {
		if err := sem.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		defer sem.Release(1)
		return p.Complete(ctx, req)
	})
}

// Timeout gives every call to p its own deadline.
func Timeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return Func(func(ctx context.Context, req Request) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		out, err := p.Complete(ctx, req)
		if err != nil && ctx.Err() != nil && !errors.Is(err, ErrUnavailable) {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return out, err
	})
}
