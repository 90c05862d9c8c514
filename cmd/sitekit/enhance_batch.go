package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-sitekit"
	"github.com/alnah/go-sitekit/internal/fileutil"
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadPage     = errors.New("failed to read HTML page")
	ErrWritePage    = errors.New("failed to write HTML page")
	ErrEnhancerInit = errors.New("failed to initialize page enhancer")
	ErrPagesFailed  = errors.New("some pages failed")
)

// PageEnhancer is the interface for the page enhancement service.
type PageEnhancer interface {
	Enhance(ctx context.Context, htmlContent, pageURL string) (string, error)
}

// Compile-time interface implementation check.
var _ PageEnhancer = (*sitekit.HTMLEnhancer)(nil)

// Pool abstracts enhancer pool operations for testability.
type Pool interface {
	Acquire() PageEnhancer
	Release(PageEnhancer)
	Size() int
}

// EnhanceResult holds the outcome of a single page.
type EnhanceResult struct {
	InputPath  string
	OutputPath string
	Unchanged  bool // already enhanced; nothing written
	Err        error
	Duration   time.Duration
}

// enhanceBatch processes pages concurrently using the enhancer pool.
// Results keep the order of pages.
func enhanceBatch(ctx context.Context, pool Pool, pages []PageToEnhance, progress Reporter) []EnhanceResult {
	if len(pages) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(pages))

	results := make([]EnhanceResult, len(pages))
	var wg sync.WaitGroup
	jobs := make(chan int, len(pages))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			e := pool.Acquire()
			if e == nil {
				// Enhancer creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = EnhanceResult{
						InputPath: pages[idx].InputPath,
						Err:       ErrEnhancerInit,
					}
					progress.Increment(pages[idx].InputPath)
				}
				return
			}
			defer pool.Release(e)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = EnhanceResult{
						InputPath: pages[idx].InputPath,
						Err:       ctx.Err(),
					}
				} else {
					results[idx] = enhancePage(ctx, e, pages[idx])
				}
				progress.Increment(pages[idx].InputPath)
			}
		}()
	}

	for i := range pages {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// enhancePage processes a single page and returns the result. A page whose
// output equals its input in place is left untouched.
func enhancePage(ctx context.Context, e PageEnhancer, p PageToEnhance) EnhanceResult {
	start := time.Now()
	result := EnhanceResult{
		InputPath:  p.InputPath,
		OutputPath: p.OutputPath,
	}
	done := func(err error) EnhanceResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(p.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %v", ErrReadPage, err))
	}

	out, err := e.Enhance(ctx, string(content), p.URL)
	if err != nil {
		return done(err)
	}

	if out == string(content) && p.OutputPath == p.InputPath {
		result.Unchanged = true
		return done(nil)
	}

	if err := fileutil.EnsureDir(filepath.Dir(p.OutputPath)); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWritePage, err))
	}
	if err := fileutil.WriteFileAtomic(p.OutputPath, []byte(out), fileutil.FilePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWritePage, err))
	}
	return done(nil)
}

// ResultSummary holds the count of enhanced, unchanged and failed pages.
type ResultSummary struct {
	Enhanced  int
	Unchanged int
	Failed    int
}

// countResults tallies page outcomes.
func countResults(results []EnhanceResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Unchanged:
			summary.Unchanged++
		default:
			summary.Enhanced++
		}
	}
	return summary
}

// printResults outputs page results using the environment writers and
// returns the number of failures.
func printResults(results []EnhanceResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		switch {
		case verbose && r.Unchanged:
			fmt.Fprintf(env.Stdout, "%s unchanged (%v)\n", r.InputPath, r.Duration.Round(time.Millisecond))
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		case !r.Unchanged:
			fmt.Fprintf(env.Stdout, "Enhanced %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d enhanced, %d unchanged, %d failed\n", summary.Enhanced, summary.Unchanged, summary.Failed)
	}

	return summary.Failed
}
