// Package batch evaluates many datasets concurrently.
package batch

import (
	"context"
	"log/slog"
	goruntime "runtime"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/errgroup"

	"github.com/715d/mincontainer/internal/dataset"
)

// Result is the outcome of evaluating a single dataset.
type Result struct {
	Name  string       `json:"name"`
	Label string       `json:"label"`
	Kind  dataset.Kind `json:"kind"`
	Size  int          `json:"size"`
	Min   string       `json:"min,omitempty"`
	Err   error        `json:"-"`
}

// Failed reports whether the dataset could not produce a minimum.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Runner evaluates datasets, one goroutine per dataset.
type Runner struct {
	// Concurrency bounds the number of datasets evaluated at once.
	// Zero or negative means runtime.NumCPU().
	Concurrency int
}

// Run evaluates every dataset and returns the results in input order.
// Per-dataset failures are recorded on the Result; the returned error is
// non-nil only when ctx is done before all datasets are evaluated.
func (r Runner) Run(ctx context.Context, datasets []dataset.Dataset) ([]Result, error) {
	limit := r.Concurrency
	if limit <= 0 {
		limit = goruntime.NumCPU()
	}

	results := xsync.NewMap[int, Result]()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, ds := range datasets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results.Store(i, evaluate(ds))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(datasets))
	for i := range datasets {
		res, _ := results.Load(i)
		out = append(out, res)
	}
	return out, nil
}

func evaluate(ds dataset.Dataset) Result {
	res := Result{
		Name:  ds.Name,
		Label: ds.Label,
		Kind:  ds.Kind,
		Size:  len(ds.Values),
	}
	res.Min, res.Err = ds.Min()
	if res.Err != nil {
		slog.Debug("dataset failed", "name", ds.Name, "err", res.Err)
	} else {
		slog.Debug("dataset evaluated", "name", ds.Name, "size", res.Size, "min", res.Min)
	}
	return res
}
