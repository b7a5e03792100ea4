package txsc

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/Kefkius/txsc/log"
)

// CompileAll compiles reqs concurrently and returns their results in
// the same order. The first failure cancels the compilations that
// have not started and is returned.
func CompileAll(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i := range reqs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Compile(log.NewContext(ctx), reqs[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CompileEach compiles reqs concurrently and returns every result
// that succeeded, in request order, with nil in place of failures.
// The failures are combined into a single *multierror.Error.
func CompileEach(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))
	var g errgroup.Group
	for i := range reqs {
		i := i
		g.Go(func() error {
			results[i], errs[i] = Compile(log.NewContext(ctx), reqs[i])
			return nil
		})
	}
	g.Wait()

	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return results, result.ErrorOrNil()
}
