package sitekit

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-sitekit/internal/process"
)

// Compile-time interface checks
var (
	_ Automation = (*RodAutomation)(nil)
	_ Session    = (*rodSession)(nil)
	_ Page       = (*rodPage)(nil)
)

// RodAutomation drives Chrome through go-rod.
// Rod downloads Chromium on first run if no browser is found.
type RodAutomation struct{}

// NewRodAutomation creates the go-rod backend.
func NewRodAutomation() *RodAutomation {
	return &RodAutomation{}
}

// Launch starts a browser and connects to it.
func (RodAutomation) Launch(ctx context.Context, opts LaunchOptions) (Session, error) {
	l := launcher.New().Context(ctx).Headless(!opts.Headful)

	// Use pre-installed browser if specified (Docker/containerized environments)
	if opts.BrowserBin != "" {
		l = l.Bin(opts.BrowserBin)
	}
	if opts.NoSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		s := &rodSession{launcher: l}
		_ = s.Close()
		return nil, err
	}

	return &rodSession{browser: browser, launcher: l}, nil
}

// rodSession owns one launched browser process.
type rodSession struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (s *rodSession) NewPage(ctx context.Context) (Page, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}
	return &rodPage{page: page}, nil
}

// Close closes the browser, then kills the launcher's process group so no
// renderer or GPU helper outlives the session.
func (s *rodSession) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		if pid := s.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return err
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) SetViewport(ctx context.Context, vp Viewport) error {
	return p.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: vp.Scale,
	})
}

func (p *rodPage) Goto(ctx context.Context, url string, wait WaitUntil) error {
	page := p.page.Context(ctx)

	// Subscribe before navigating so the event cannot be missed.
	waitEvent := page.WaitNavigation(lifecycleEvent(wait))
	if err := page.Navigate(url); err != nil {
		return err
	}
	waitEvent()

	return ctx.Err()
}

// lifecycleEvent maps a WaitUntil to the CDP lifecycle event name.
func lifecycleEvent(wait WaitUntil) proto.PageLifecycleEventName {
	switch wait {
	case WaitDOMContentLoaded:
		return proto.PageLifecycleEventNameDOMContentLoaded
	case WaitNetworkIdle:
		return proto.PageLifecycleEventNameNetworkIdle
	default:
		return proto.PageLifecycleEventNameLoad
	}
}

func (p *rodPage) EvaluateHandle(ctx context.Context, expr string) error {
	page := p.page.Context(ctx)
	obj, err := page.Evaluate(rod.Eval(expr).ByObject().ByPromise())
	if err != nil {
		return err
	}
	if obj != nil && obj.ObjectID != "" {
		_ = page.Release(obj)
	}
	return nil
}

func (p *rodPage) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	return p.page.Context(ctx).Screenshot(opts.FullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}
