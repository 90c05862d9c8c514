package sitekit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-sitekit/internal/fileutil"
)

// Default snapshot job paths, relative to the site root.
const (
	DefaultSnapshotInput  = "assets/images/social/core-concepts-preview.html"
	DefaultSnapshotOutput = "assets/images/social/core-concepts-social.png"
)

// DefaultSnapshotTimeout bounds a whole snapshot run.
const DefaultSnapshotTimeout = 30 * time.Second

// fontsReadyExpr resolves once every web font in the page has loaded.
const fontsReadyExpr = "document.fonts.ready"

// SnapshotJob describes one capture.
type SnapshotJob struct {
	Input     string        // local HTML file, or Markdown rendered as a card
	Output    string        // PNG path; parent directories are created
	Viewport  Viewport      // zero value means DefaultViewport
	WaitUntil WaitUntil     // empty means WaitNetworkIdle
	Timeout   time.Duration // zero means DefaultSnapshotTimeout
}

// DefaultSnapshotJob returns the job run when no arguments are given.
func DefaultSnapshotJob() SnapshotJob {
	return SnapshotJob{
		Input:     DefaultSnapshotInput,
		Output:    DefaultSnapshotOutput,
		Viewport:  DefaultViewport,
		WaitUntil: WaitNetworkIdle,
		Timeout:   DefaultSnapshotTimeout,
	}
}

// withDefaults fills zero fields.
func (j SnapshotJob) withDefaults() SnapshotJob {
	if j.Viewport == (Viewport{}) {
		j.Viewport = DefaultViewport
	}
	if j.WaitUntil == "" {
		j.WaitUntil = WaitNetworkIdle
	}
	if j.Timeout == 0 {
		j.Timeout = DefaultSnapshotTimeout
	}
	return j
}

// Validate checks the job after defaults are applied. It does not touch
// the filesystem.
func (j SnapshotJob) Validate() error {
	j = j.withDefaults()
	if j.Input == "" {
		return ErrEmptyInput
	}
	if j.Output == "" {
		return ErrEmptyOutput
	}
	if err := j.Viewport.Validate(); err != nil {
		return err
	}
	if _, err := ParseWaitUntil(string(j.WaitUntil)); err != nil {
		return err
	}
	if j.Timeout < 0 {
		return fmt.Errorf("%w: timeout %v", ErrInvalidTimeout, j.Timeout)
	}
	return nil
}

// SnapshotResult reports a written image.
type SnapshotResult struct {
	Path     string
	Width    int // device pixels
	Height   int // device pixels
	Bytes    int64
	Duration time.Duration
}

// Generator captures snapshots. Each Run owns one browser session from
// launch to close; nothing is shared between runs.
type Generator struct {
	automation Automation
	launch     LaunchOptions
	cards      CardRenderer
	log        *log.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithAutomation sets the browser backend.
func WithAutomation(a Automation) GeneratorOption {
	return func(g *Generator) {
		if a != nil {
			g.automation = a
		}
	}
}

// WithLaunchOptions replaces the launch options read from the environment.
func WithLaunchOptions(opts LaunchOptions) GeneratorOption {
	return func(g *Generator) {
		g.launch = opts
	}
}

// WithCardRenderer sets the renderer used for Markdown inputs.
func WithCardRenderer(r CardRenderer) GeneratorOption {
	return func(g *Generator) {
		if r != nil {
			g.cards = r
		}
	}
}

// WithGeneratorLogger sets the logger for run progress.
func WithGeneratorLogger(l *log.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGenerator creates a Generator using go-rod and launch options from the
// environment unless overridden.
func NewGenerator(opts ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		launch: LaunchOptionsFromEnv(),
		log:    log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.automation == nil {
		g.automation = NewRodAutomation()
	}
	if g.cards == nil {
		cards, err := NewMarkdownCardRenderer()
		if err != nil {
			return nil, err
		}
		g.cards = cards
	}
	g.log = g.log.WithPrefix("snapshot")
	return g, nil
}

// Run renders job.Input in a fresh browser session and writes the viewport
// as PNG to job.Output. The session is closed on every path. The image is
// written atomically, so a failed run never leaves a partial file.
func (g *Generator) Run(ctx context.Context, job SnapshotJob) (result *SnapshotResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	start := time.Now()

	if err := job.Validate(); err != nil {
		return nil, err
	}
	job = job.withDefaults()

	if err := fileutil.EnsureDir(filepath.Dir(job.Output)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	pageURL, cleanup, err := g.preparePage(ctx, job.Input)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()

	data, err := g.capture(ctx, pageURL, job)
	if err != nil {
		return nil, err
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid PNG: %v", ErrScreenshot, err)
	}

	if err := fileutil.WriteFileAtomic(job.Output, data, fileutil.FilePermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteImage, err)
	}

	result = &SnapshotResult{
		Path:     job.Output,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Bytes:    int64(len(data)),
		Duration: time.Since(start),
	}
	g.log.Debug("image written", "path", result.Path, "width", result.Width, "height", result.Height, "duration", result.Duration)
	return result, nil
}

// preparePage checks the input and returns the URL to load. Markdown is
// rendered to a temporary card page first; cleanup removes it.
func (g *Generator) preparePage(ctx context.Context, input string) (pageURL string, cleanup func(), err error) {
	cleanup = func() {}

	info, err := os.Stat(input)
	if err != nil {
		return "", cleanup, fmt.Errorf("%w: %w", ErrInputNotFound, err)
	}
	if info.IsDir() {
		return "", cleanup, fmt.Errorf("%w: %s is a directory", ErrInputNotFound, input)
	}

	path := input
	if isMarkdown(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided input path
		if err != nil {
			return "", cleanup, fmt.Errorf("%w: %w", ErrInputNotFound, err)
		}
		page, err := g.cards.RenderCard(ctx, string(content), filepath.Dir(input))
		if err != nil {
			return "", cleanup, err
		}
		path, cleanup, err = fileutil.WriteTempFile(page, "html")
		if err != nil {
			return "", func() {}, fmt.Errorf("%w: %v", ErrCardRender, err)
		}
		g.log.Debug("rendered card", "source", input, "page", path)
	}

	pageURL, err = fileutil.FileURL(path)
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	}
	return pageURL, cleanup, nil
}

// capture runs one browser session. Errors from the backend are wrapped
// with the sentinel of the failed step; none are retried.
func (g *Generator) capture(ctx context.Context, pageURL string, job SnapshotJob) (data []byte, err error) {
	g.log.Debug("launching browser", "backend", fmt.Sprintf("%T", g.automation))
	session, err := g.automation.Launch(ctx, g.launch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			g.log.Warn("closing browser", "err", closeErr)
		}
	}()

	page, err := session.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := page.SetViewport(ctx, job.Viewport); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrViewport, err)
	}

	g.log.Debug("loading page", "url", pageURL, "wait", job.WaitUntil, "viewport", job.Viewport)
	if err := page.Goto(ctx, pageURL, job.WaitUntil); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNavigation, pageURL, timeoutCause(ctx, err))
	}

	if err := page.EvaluateHandle(ctx, fontsReadyExpr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontsTimeout, timeoutCause(ctx, err))
	}

	data, err = page.Screenshot(ctx, ScreenshotOptions{FullPage: false})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, timeoutCause(ctx, err))
	}
	return data, nil
}

// timeoutCause marks err as a timeout when the run's deadline stopped it.
func timeoutCause(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("timed out: %v", err)
	}
	return err
}
