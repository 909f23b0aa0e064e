package cli

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/stylusport/internal/compiler"
	"github.com/roach88/stylusport/internal/ir"
	"github.com/roach88/stylusport/internal/normalize"
	"github.com/roach88/stylusport/internal/schema"
)

// pipelineOptions configure processFiles.
type pipelineOptions struct {
	Jobs        int  // worker limit; <= 0 means GOMAXPROCS
	SchemaCheck bool // run schema.Check on every result
	Logger      *zap.Logger
}

// fileResult is the outcome of normalizing one source file.
// Exactly one of Program and Err is set.
type fileResult struct {
	Path    string
	Program *ir.NormalizedProgram
	Digest  string
	Err     error
}

// processFile runs parse, build, normalize, and the optional schema check
// for one file.
func processFile(ctx context.Context, path string, opts pipelineOptions) fileResult {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	p, err := compiler.CompileFile(ctx, path)
	if err != nil {
		log.Warn("parse failed", zap.String("path", path), zap.Error(err))
		return fileResult{Path: path, Err: err}
	}

	np, err := normalize.Normalize(p)
	if err != nil {
		log.Warn("normalize failed", zap.String("path", path), zap.Error(err))
		return fileResult{Path: path, Err: err}
	}

	if opts.SchemaCheck {
		if err := schema.Check(np); err != nil {
			log.Warn("schema check failed", zap.String("path", path), zap.Error(err))
			return fileResult{Path: path, Err: err}
		}
	}

	digest, err := ir.Digest(np)
	if err != nil {
		return fileResult{Path: path, Err: fmt.Errorf("digest %s: %w", path, err)}
	}

	counts := ir.CountIssues(np.ValidationIssues)
	log.Debug("normalized",
		zap.String("path", path),
		zap.String("program", np.Name),
		zap.Int("errors", counts.Error),
		zap.Int("warnings", counts.Warning),
		zap.Int("infos", counts.Info),
		zap.Duration("elapsed", time.Since(start)))

	return fileResult{Path: path, Program: np, Digest: digest}
}

// processFiles normalizes paths concurrently. Results keep the order of
// paths regardless of completion order. Per-file failures are recorded on
// the result; the returned error is only set when ctx is cancelled.
func processFiles(ctx context.Context, paths []string, opts pipelineOptions) ([]fileResult, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processFile(gctx, path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// failed counts results with an error.
func failed(results []fileResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
