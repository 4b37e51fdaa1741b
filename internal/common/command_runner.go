package common

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunBatch applies fn to every item with at most limit calls in flight and
// returns the results in input order. The first error cancels the rest.
func RunBatch[In, Out any](ctx context.Context, items []In, limit int, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	results := make([]Out, len(items))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			out, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
