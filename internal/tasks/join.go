// package tasks provides small concurrency combinators for fan-out API calls.
package tasks

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Both runs fa and fb concurrently and waits for both.
//
// The result is all-or-nothing: if either function fails, the zero values are
// returned together with the first error, and the context passed to the other
// function is cancelled.
func Both[A, B any](
	ctx context.Context,
	fa func(context.Context) (A, error),
	fb func(context.Context) (B, error),
) (A, B, error) {
	var (
		a A
		b B
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := fa(gctx)
		if err != nil {
			return err
		}
		a = v
		return nil
	})
	g.Go(func() error {
		v, err := fb(gctx)
		if err != nil {
			return err
		}
		b = v
		return nil
	})

	if err := g.Wait(); err != nil {
		var za A
		var zb B
		return za, zb, err
	}
	return a, b, nil
}
