// Package parallel runs independent jobs on a bounded set of goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Maximum number of jobs running at once.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// ForEach calls f(ctx, i) for i in [0, n). With parallelism disabled the
// calls run in index order on the calling goroutine.
//
// The first error cancels the context passed to the remaining calls and is
// returned once every started call has finished. Calls not yet started
// when ctx is done are skipped.
func ForEach(ctx context.Context, n int, f func(ctx context.Context, i int) error, cfg Config) error {
	if !cfg.Enabled || n < 2 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := f(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.NumWorkers, 1))
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return f(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
