package main

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/alnah/go-sitekit"
	"github.com/alnah/go-sitekit/internal/config"
)

// Snapshot is the generator contract the command drives.
type Snapshot interface {
	Run(ctx context.Context, job sitekit.SnapshotJob) (*sitekit.SnapshotResult, error)
}

// Compile-time interface implementation check.
var _ Snapshot = (*sitekit.Generator)(nil)

// runSnapshot generates the social preview image, once or on every change
// of the input with --watch.
func runSnapshot(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseSnapshotFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: snapshot takes at most one input, got %d", ErrUsage, len(positional))
	}

	l := env.logger(flags.common.quiet, flags.common.verbose)

	cfg, err := loadConfig(flags.common.config, l)
	if err != nil {
		return err
	}
	mergeSnapshotFlags(flags, positional, cfg)

	job, err := buildSnapshotJob(cfg)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, flags.browser.headful, env, l)
	if err != nil {
		return err
	}

	if !flags.watch {
		return snapshotOnce(ctx, gen, job, flags.common, env)
	}

	return watchFile(ctx, job.Input, l, func(ctx context.Context) {
		if err := snapshotOnce(ctx, gen, job, flags.common, env); err != nil && ctx.Err() == nil {
			l.Error("snapshot failed", "err", withHint(err))
		}
	})
}

// mergeSnapshotFlags applies explicitly set flags on top of cfg (CLI wins).
func mergeSnapshotFlags(f *snapshotFlags, positional []string, cfg *config.Config) {
	if len(positional) == 1 {
		cfg.Snapshot.Input = positional[0]
	}
	if f.output != "" {
		cfg.Snapshot.Output = f.output
	}
	if f.width != 0 {
		cfg.Snapshot.Width = f.width
	}
	if f.height != 0 {
		cfg.Snapshot.Height = f.height
	}
	if f.scale != 0 {
		cfg.Snapshot.Scale = f.scale
	}
	if f.wait != "" {
		cfg.Snapshot.Wait = f.wait
	}
	if f.timeout != "" {
		cfg.Snapshot.Timeout = f.timeout
	}
	if f.browser.backend != "" {
		cfg.Snapshot.Backend = f.browser.backend
	}
	if f.browser.bin != "" {
		cfg.Browser.Bin = f.browser.bin
	}
	if f.browser.noSandbox {
		cfg.Browser.NoSandbox = true
	}
	if f.siteName != "" {
		cfg.Site.Name = f.siteName
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// buildSnapshotJob turns the merged configuration into a validated job.
// Unset fields keep DefaultSnapshotJob values.
func buildSnapshotJob(cfg *config.Config) (sitekit.SnapshotJob, error) {
	job := sitekit.DefaultSnapshotJob()
	s := cfg.Snapshot

	if s.Input != "" {
		job.Input = s.Input
	}
	if s.Output != "" {
		job.Output = s.Output
	}
	if s.Width != 0 {
		job.Viewport.Width = s.Width
	}
	if s.Height != 0 {
		job.Viewport.Height = s.Height
	}
	if s.Scale != 0 {
		job.Viewport.Scale = s.Scale
	}

	wait, err := sitekit.ParseWaitUntil(s.Wait)
	if err != nil {
		return sitekit.SnapshotJob{}, err
	}
	job.WaitUntil = wait

	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil || d <= 0 {
			return sitekit.SnapshotJob{}, fmt.Errorf("%w: %q", sitekit.ErrInvalidTimeout, s.Timeout)
		}
		job.Timeout = d
	}

	if err := job.Validate(); err != nil {
		return sitekit.SnapshotJob{}, err
	}
	return job, nil
}

// newGenerator wires the configured backend, launch options and card
// renderer into a Generator.
func newGenerator(cfg *config.Config, headful bool, env *Environment, l *log.Logger) (*sitekit.Generator, error) {
	automation, err := env.NewAutomation(cfg.Snapshot.Backend)
	if err != nil {
		return nil, err
	}

	launch := sitekit.LaunchOptionsFromEnv()
	if cfg.Browser.Bin != "" {
		launch.BrowserBin = cfg.Browser.Bin
	}
	if cfg.Browser.NoSandbox {
		launch.NoSandbox = true
	}
	launch.Headful = headful

	cardOpts := []sitekit.CardOption{
		sitekit.WithSiteName(cfg.Site.Name),
		sitekit.WithCardTime(env.Now),
	}
	if cfg.Assets.BasePath != "" {
		loader, err := sitekit.NewAssetLoader(cfg.Assets.BasePath)
		if err != nil {
			return nil, err
		}
		cardOpts = append(cardOpts, sitekit.WithCardAssetLoader(loader))
	}
	cards, err := sitekit.NewMarkdownCardRenderer(cardOpts...)
	if err != nil {
		return nil, err
	}

	return sitekit.NewGenerator(
		sitekit.WithAutomation(automation),
		sitekit.WithLaunchOptions(launch),
		sitekit.WithCardRenderer(cards),
		sitekit.WithGeneratorLogger(l),
	)
}

// snapshotOnce runs one job behind a spinner and reports the result.
func snapshotOnce(ctx context.Context, gen Snapshot, job sitekit.SnapshotJob, common commonFlags, env *Environment) error {
	var s *spinner.Spinner
	if env.Interactive && !common.quiet && !common.verbose {
		s = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(env.Stderr))
		s.Suffix = " Rendering " + job.Input
		s.Start()
	}

	result, err := gen.Run(ctx, job)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}

	if common.quiet {
		return nil
	}
	fmt.Fprintf(env.Stdout, "Social preview image generated at: %s\n", result.Path)
	if common.verbose {
		fmt.Fprintf(env.Stdout, "  %dx%d px, %s, %v\n",
			result.Width, result.Height, humanize.Bytes(uint64(result.Bytes)), result.Duration.Round(time.Millisecond))
	}
	return nil
}
