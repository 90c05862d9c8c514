package sitekit

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Automation launches headless browser sessions. The snapshot generator
// depends only on this operation set, so tests substitute a fake.
type Automation interface {
	Launch(ctx context.Context, opts LaunchOptions) (Session, error)
}

// Session is one running browser process. Close releases it and must be
// called on every path once Launch succeeds.
type Session interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is one browser tab.
type Page interface {
	// SetViewport sizes the layout viewport in CSS pixels at vp.Scale
	// device pixels per CSS pixel.
	SetViewport(ctx context.Context, vp Viewport) error

	// Goto navigates to url and returns once wait is satisfied.
	Goto(ctx context.Context, url string, wait WaitUntil) error

	// EvaluateHandle evaluates expr in the page and waits for the promise it
	// returns, if any, to settle. The resulting handle is released.
	EvaluateHandle(ctx context.Context, expr string) error

	// Screenshot captures the page as PNG.
	Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error)
}

// LaunchOptions configures a browser launch.
type LaunchOptions struct {
	BrowserBin string // empty: let the backend locate or download a browser
	NoSandbox  bool   // required in most containers and CI runners
	Headful    bool   // show the browser window; for debugging only
}

// LaunchOptionsFromEnv reads ROD_BROWSER_BIN, ROD_NO_SANDBOX and CI.
// A pre-installed browser binary implies a container, so the sandbox is
// disabled with it.
func LaunchOptionsFromEnv() LaunchOptions {
	bin := os.Getenv("ROD_BROWSER_BIN")
	return LaunchOptions{
		BrowserBin: bin,
		NoSandbox:  bin != "" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true",
	}
}

// ScreenshotOptions controls a capture. Images are always PNG.
type ScreenshotOptions struct {
	FullPage bool // capture the whole scrollable page instead of the viewport
}

// Viewport is a browser viewport in CSS pixels.
type Viewport struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"` // device pixel ratio
}

// DefaultViewport is the Open Graph preview size at retina density.
var DefaultViewport = Viewport{Width: 1200, Height: 630, Scale: 2}

// Validate checks that every dimension is positive.
func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, v.Width, v.Height)
	}
	if v.Scale <= 0 {
		return fmt.Errorf("%w: scale %g", ErrInvalidViewport, v.Scale)
	}
	return nil
}

// DeviceSize returns the size of a viewport capture in device pixels.
func (v Viewport) DeviceSize() (width, height int) {
	return int(float64(v.Width) * v.Scale), int(float64(v.Height) * v.Scale)
}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d@%gx", v.Width, v.Height, v.Scale)
}

// WaitUntil names the page lifecycle event navigation waits for.
type WaitUntil string

const (
	WaitLoad             WaitUntil = "load"
	WaitDOMContentLoaded WaitUntil = "domcontentloaded"
	WaitNetworkIdle      WaitUntil = "networkidle"
)

// ParseWaitUntil converts a string to a WaitUntil. Empty means
// WaitNetworkIdle.
func ParseWaitUntil(s string) (WaitUntil, error) {
	switch w := WaitUntil(strings.ToLower(strings.TrimSpace(s))); w {
	case "":
		return WaitNetworkIdle, nil
	case WaitLoad, WaitDOMContentLoaded, WaitNetworkIdle:
		return w, nil
	default:
		return "", fmt.Errorf("%w: %q (expected load, domcontentloaded or networkidle)", ErrInvalidWaitUntil, s)
	}
}

// Browser automation backends.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
)

// Backends lists the supported automation backends.
var Backends = []string{BackendRod, BackendChromedp}

// NewAutomation returns the named backend. Empty selects BackendRod.
func NewAutomation(backend string) (Automation, error) {
	switch strings.ToLower(backend) {
	case "", BackendRod:
		return NewRodAutomation(), nil
	case BackendChromedp:
		return NewChromedpAutomation(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %s)", ErrUnknownBackend, backend, strings.Join(Backends, " or "))
	}
}
