package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Both runs left and right concurrently. The first failure cancels the
// context of the other and is returned with zero results.
func Both[L, R any](
	ctx context.Context,
	left func(context.Context) (L, error),
	right func(context.Context) (R, error),
) (L, R, error) {
	var (
		l L
		r R
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		l, err = left(gctx)
		return err
	})
	g.Go(func() (err error) {
		r, err = right(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		var (
			zl L
			zr R
		)

		return zl, zr, err
	}

	return l, r, nil
}

// MapLimit applies fn to every input with at most limit calls in flight and
// returns the outputs in input order. A limit below one runs sequentially.
// The first failure cancels the remaining calls.
func MapLimit[In, Out any](
	ctx context.Context,
	limit int,
	inputs []In,
	fn func(context.Context, In) (Out, error),
) ([]Out, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	out := make([]Out, len(inputs))

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			v, err := fn(gctx, in)
			out[i] = v

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
