package buildpipeline

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"ec/internal/rewrite"
	"ec/internal/stdlib"
)

// HeaderOptions configures NormalizeHeaders.
type HeaderOptions struct {
	// Jobs bounds parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// DryRun computes rewrites without writing them.
	DryRun   bool
	Progress ProgressSink
}

// HeaderResult is the outcome for one file. Err is per file; one failing
// file does not stop the others.
type HeaderResult struct {
	Path   string
	Result rewrite.Result
	Err    error
}

// NormalizeHeaders rewrites the include block of every file, several files
// at a time. Results are in input order. The returned error is only set when
// ctx is cancelled.
func NormalizeHeaders(ctx context.Context, files []string, idx *stdlib.Index, opts HeaderOptions) ([]HeaderResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if idx == nil {
		idx = stdlib.Build()
	}
	results := make([]HeaderResult, len(files))
	if len(files) == 0 {
		return results, nil
	}
	for _, f := range files {
		emit(opts.Progress, f, StageHeaders, StatusQueued, nil, 0)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// indices are unique per goroutine, no mutex needed
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = HeaderResult{Path: path, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			start := time.Now()
			emit(opts.Progress, path, StageHeaders, StatusWorking, nil, 0)
			res, err := rewrite.File(gctx, path, idx, opts.DryRun)
			results[i] = HeaderResult{Path: path, Result: res, Err: err}
			switch {
			case err != nil:
				emit(opts.Progress, path, StageHeaders, StatusError, err, time.Since(start))
			case res.Changed:
				emit(opts.Progress, path, StageHeaders, StatusDone, nil, time.Since(start))
			default:
				emit(opts.Progress, path, StageHeaders, StatusSkipped, nil, time.Since(start))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
