package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-sitekit"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment, fakes and file helpers
// ---------------------------------------------------------------------------

// testEnv returns an Environment writing to buffers, with a fixed clock and
// a fake browser backend.
func testEnv(auto *fakeAutomation) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:       func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		Stdout:    stdout,
		Stderr:    stderr,
		Clipboard: &fakeClipboard{},
		NewAutomation: func(backend string) (sitekit.Automation, error) {
			if backend != "" && backend != sitekit.BackendRod && backend != sitekit.BackendChromedp {
				return sitekit.NewAutomation(backend)
			}
			return auto, nil
		},
		Logger: log.New(io.Discard),
	}
	return env, stdout, stderr
}

type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (c *fakeClipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, text)
	return nil
}

// fakeAutomation serves blank PNGs sized to the requested viewport and can
// fail at launch.
type fakeAutomation struct {
	mu        sync.Mutex
	launchErr error
	launches  int
	closes    int
	opts      sitekit.LaunchOptions
	wait      sitekit.WaitUntil
}

func (f *fakeAutomation) Launch(_ context.Context, opts sitekit.LaunchOptions) (sitekit.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches++
	f.opts = opts
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	return &fakeSession{f: f}, nil
}

func (f *fakeAutomation) Launches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.launches
}

type fakeSession struct{ f *fakeAutomation }

func (s *fakeSession) NewPage(context.Context) (sitekit.Page, error) {
	return &fakePage{f: s.f}, nil
}

func (s *fakeSession) Close() error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.closes++
	return nil
}

type fakePage struct {
	f  *fakeAutomation
	vp sitekit.Viewport
}

func (p *fakePage) SetViewport(_ context.Context, vp sitekit.Viewport) error {
	p.vp = vp
	return nil
}

func (p *fakePage) Goto(_ context.Context, _ string, wait sitekit.WaitUntil) error {
	p.f.mu.Lock()
	p.f.wait = wait
	p.f.mu.Unlock()
	return nil
}

func (p *fakePage) EvaluateHandle(context.Context, string) error { return nil }

func (p *fakePage) Screenshot(context.Context, sitekit.ScreenshotOptions) ([]byte, error) {
	w, h := p.vp.DeviceSize()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFile creates dir/name with content, making parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", p, err)
	}
	return string(b)
}

const samplePage = `<!DOCTYPE html>
<html><head><title>Guide</title></head>
<body>
<pre><code>go install example.com/tool@latest</code></pre>
<a href="https://github.com/example">source</a>
</body></html>`
