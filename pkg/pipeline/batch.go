package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Batch generates every key with the same options using up to workers
// goroutines (GOMAXPROCS when workers is not positive). Results are in input
// order. The first error cancels the remaining work and is returned.
func (r *Runner) Batch(ctx context.Context, keys []int, opts Options, workers int) ([]*Result, error) {
	return r.BatchFunc(ctx, keys, opts, workers, nil)
}

// BatchFunc is Batch with a callback invoked after each completed key. The
// callback may run concurrently from several workers.
func (r *Runner) BatchFunc(ctx context.Context, keys []int, opts Options, workers int, done func(*Result)) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, key := range keys {
		o := opts
		o.Key = key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Generate(ctx, o)
			if err != nil {
				return err
			}
			results[i] = res
			if done != nil {
				done(res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
