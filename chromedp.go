package sitekit

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Compile-time interface checks
var (
	_ Automation = (*ChromedpAutomation)(nil)
	_ Session    = (*chromedpSession)(nil)
	_ Page       = (*chromedpPage)(nil)
)

// ChromedpAutomation drives Chrome through chromedp. Unlike rod it never
// downloads a browser: one must be installed or named by BrowserBin.
type ChromedpAutomation struct{}

// NewChromedpAutomation creates the chromedp backend.
func NewChromedpAutomation() *ChromedpAutomation {
	return &ChromedpAutomation{}
}

// Launch starts a browser process. The session outlives ctx cancellation
// only until Close; cancelling ctx kills the browser.
func (ChromedpAutomation) Launch(ctx context.Context, opts LaunchOptions) (Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.Flag("headless", !opts.Headful),
		chromedp.Flag("hide-scrollbars", true),
	)
	if opts.BrowserBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.BrowserBin))
	}
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &chromedpSession{
		browser: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}

	// An empty Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

type chromedpSession struct {
	browser context.Context
	cancel  context.CancelFunc

	mu   sync.Mutex
	tabs []context.CancelFunc
	once sync.Once
}

func (s *chromedpSession) NewPage(ctx context.Context) (Page, error) {
	tab, cancel := chromedp.NewContext(s.browser)
	p := &chromedpPage{tab: tab}
	if err := p.run(ctx); err != nil {
		cancel()
		return nil, err
	}

	s.mu.Lock()
	s.tabs = append(s.tabs, cancel)
	s.mu.Unlock()
	return p, nil
}

// Close closes every tab, then cancels the browser context, which waits for
// the browser process to exit.
func (s *chromedpSession) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		tabs := s.tabs
		s.tabs = nil
		s.mu.Unlock()

		for _, cancel := range tabs {
			cancel()
		}
		s.cancel()
	})
	return nil
}

type chromedpPage struct {
	tab context.Context
}

// run executes actions in the tab, aborting when ctx is done. Cancelling the
// derived context stops the actions without closing the tab.
func (p *chromedpPage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.tab)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (p *chromedpPage) SetViewport(ctx context.Context, vp Viewport) error {
	return p.run(ctx, chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height), chromedp.EmulateScale(vp.Scale)))
}

func (p *chromedpPage) Goto(ctx context.Context, url string, wait WaitUntil) error {
	name := string(lifecycleEvent(wait))

	reached := make(chan struct{})
	var once sync.Once
	listenCtx, cancel := context.WithCancel(p.tab)
	defer cancel()

	// Events before "init" belong to the blank page the tab opened with.
	var started bool
	var mu sync.Mutex
	chromedp.ListenTarget(listenCtx, func(ev any) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch {
		case e.Name == "init":
			started = true
		case started && e.Name == name:
			once.Do(func() { close(reached) })
		}
	})

	if err := p.run(ctx, page.SetLifecycleEventsEnabled(true), chromedp.Navigate(url)); err != nil {
		return err
	}

	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *chromedpPage) EvaluateHandle(ctx context.Context, expr string) error {
	return p.run(ctx, chromedp.Evaluate(expr, nil, func(ep *runtime.EvaluateParams) *runtime.EvaluateParams {
		return ep.WithAwaitPromise(true)
	}))
}

func (p *chromedpPage) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	var buf []byte
	action := chromedp.CaptureScreenshot(&buf)
	if opts.FullPage {
		// Quality 100 selects lossless PNG encoding.
		action = chromedp.FullScreenshot(&buf, 100)
	}
	if err := p.run(ctx, action); err != nil {
		return nil, err
	}
	return buf, nil
}
