package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-sitekit"
	"github.com/alnah/go-sitekit/internal/config"
)

// runEnhance decorates every HTML page under the input path.
func runEnhance(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseEnhanceFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) == 0 {
		return fmt.Errorf("%w: pass an HTML file or directory", ErrNoInput)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: enhance takes one input, got %d", ErrUsage, len(positional))
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	l := env.logger(flags.common.quiet, flags.common.verbose)

	cfg, err := loadConfig(flags.common.config, l)
	if err != nil {
		return err
	}
	mergeEnhanceFlags(flags, cfg)

	opts, err := htmlEnhancerOptions(cfg, l)
	if err != nil {
		return err
	}
	// Fail on bad assets or options before touching any page.
	if _, err := sitekit.NewHTMLEnhancer(opts...); err != nil {
		return err
	}

	pages, err := discoverPages(positional[0], cfg.Enhance.OutputDir, cfg.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("%w: no HTML pages found in %s", ErrNoInput, positional[0])
	}

	pool := NewEnhancerPool(resolvePoolSize(cfg.Enhance.Workers), func() (PageEnhancer, error) {
		return sitekit.NewHTMLEnhancer(opts...)
	})
	defer pool.Close()
	l.Debug("enhancing", "pages", len(pages), "workers", pool.Size())

	start := time.Now()
	progress := newReporter(env, l, flags.common.quiet)
	progress.Start(len(pages))
	results := enhanceBatch(ctx, pool, pages, progress)
	progress.Finish()
	l.Debug("batch finished", "duration", time.Since(start).Round(time.Millisecond))

	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		if poolErr := pool.Err(); poolErr != nil {
			return fmt.Errorf("%w: %v", ErrEnhancerInit, poolErr)
		}
		return fmt.Errorf("%w: %d of %d", ErrPagesFailed, failed, len(results))
	}
	return ctx.Err()
}

// mergeEnhanceFlags applies explicitly set flags on top of cfg (CLI wins).
func mergeEnhanceFlags(f *enhanceFlags, cfg *config.Config) {
	if f.output != "" {
		cfg.Enhance.OutputDir = f.output
	}
	if f.baseURL != "" {
		cfg.Site.BaseURL = f.baseURL
	}
	if f.workers != 0 {
		cfg.Enhance.Workers = f.workers
	}
	if f.noRuntime {
		off := false
		cfg.Enhance.Runtime = &off
	}
	if f.scrollPolicy != "" {
		cfg.Enhance.ScrollPolicy = f.scrollPolicy
	}
	if f.noHistory {
		off := false
		cfg.Enhance.History = &off
	}
	if f.workerScript != "" {
		cfg.Enhance.WorkerScript = f.workerScript
	}
	if len(f.disable) > 0 {
		cfg.Enhance.Disable = append(cfg.Enhance.Disable, f.disable...)
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// htmlEnhancerOptions translates the enhance configuration into library
// options.
func htmlEnhancerOptions(cfg *config.Config, l *log.Logger) ([]sitekit.HTMLEnhancerOption, error) {
	e := cfg.Enhance

	policy, err := sitekit.ParseScrollPolicy(e.ScrollPolicy)
	if err != nil {
		return nil, err
	}
	disabled, err := sitekit.ParseFeatures(e.Disable)
	if err != nil {
		return nil, err
	}

	enhancerOpts := []sitekit.EnhancerOption{
		sitekit.WithLogger(l),
		sitekit.WithScrollPolicy(policy),
		sitekit.WithHistory(e.History == nil || *e.History),
		sitekit.WithoutFeatures(disabled),
	}
	if e.ScrollThreshold > 0 {
		enhancerOpts = append(enhancerOpts, sitekit.WithScrollThreshold(e.ScrollThreshold))
	}
	if e.AckDuration != "" {
		enhancerOpts = append(enhancerOpts, sitekit.WithAckDuration(config.ParseDuration(e.AckDuration, sitekit.DefaultAckDuration)))
	}

	opts := []sitekit.HTMLEnhancerOption{
		sitekit.WithRuntime(e.Runtime == nil || *e.Runtime),
		sitekit.WithWorkerScript(e.WorkerScript),
		sitekit.WithEnhancerOptions(enhancerOpts...),
	}
	if cfg.Assets.BasePath != "" {
		loader, err := sitekit.NewAssetLoader(cfg.Assets.BasePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sitekit.WithAssetLoader(loader))
	}
	return opts, nil
}
