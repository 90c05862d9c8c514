package sitekit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-sitekit/internal/htmldom"
)

// Mock implementations for testing.

type mockClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (m *mockClipboard) WriteText(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, text)
	return nil
}

func (m *mockClipboard) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.writes)
}

type mockWorker struct {
	calls []string
	err   error
}

func (m *mockWorker) Register(ctx context.Context, scriptURL string) error {
	m.calls = append(m.calls, scriptURL)
	return m.err
}

// manualClock fires AfterFunc callbacks when Advance moves past their
// deadline.
type manualClock struct {
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.now += d
	for _, t := range slices.Clone(c.timers) {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			t.f()
		}
	}
}

func (c *manualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// testLogger returns a logger writing to buf, or discarding when buf is nil.
func testLogger(buf *bytes.Buffer) *log.Logger {
	var w io.Writer = io.Discard
	if buf != nil {
		w = buf
	}
	return log.NewWithOptions(w, log.Options{Level: log.DebugLevel})
}

func parseDoc(t *testing.T, src, pageURL string) *htmldom.Document {
	t.Helper()
	doc, err := htmldom.ParseString(src, pageURL)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

func attach(t *testing.T, doc *htmldom.Document, opts ...EnhancerOption) *Enhancer {
	t.Helper()
	opts = append([]EnhancerOption{WithLogger(testLogger(nil))}, opts...)
	e, err := NewEnhancer(doc, opts...)
	if err != nil {
		t.Fatalf("NewEnhancer() error = %v", err)
	}
	if err := e.Attach(context.Background()); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	t.Cleanup(e.Detach)
	return e
}

// staticLoader serves assets from maps.
type staticLoader struct {
	styles    map[string]string
	scripts   map[string]string
	templates map[string]string
}

func (l *staticLoader) LoadStyle(name string) (string, error) {
	if s, ok := l.styles[name]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
}

func (l *staticLoader) LoadScript(name string) (string, error) {
	if s, ok := l.scripts[name]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrScriptNotFound, name)
}

func (l *staticLoader) LoadTemplate(name string) (string, error) {
	if s, ok := l.templates[name]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// fakeAutomation records the automation calls of a snapshot run and can
// fail at one step.
type fakeAutomation struct {
	mu     sync.Mutex
	calls  []string
	failAt string // step name whose call returns err
	err    error
	image  []byte // screenshot bytes; nil encodes a PNG of the viewport size
	closed int
	vp     Viewport
	url    string
	wait   WaitUntil
	expr   string
	opts   LaunchOptions
}

func (f *fakeAutomation) record(step string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, step)
	if step == f.failAt {
		return f.err
	}
	return nil
}

func (f *fakeAutomation) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeAutomation) Launch(ctx context.Context, opts LaunchOptions) (Session, error) {
	f.opts = opts
	if err := f.record("launch"); err != nil {
		return nil, err
	}
	return &fakeSession{f: f}, nil
}

type fakeSession struct{ f *fakeAutomation }

func (s *fakeSession) NewPage(ctx context.Context) (Page, error) {
	if err := s.f.record("newPage"); err != nil {
		return nil, err
	}
	return &fakePage{f: s.f}, nil
}

func (s *fakeSession) Close() error {
	s.f.mu.Lock()
	s.f.closed++
	s.f.mu.Unlock()
	return s.f.record("close")
}

type fakePage struct{ f *fakeAutomation }

func (p *fakePage) SetViewport(ctx context.Context, vp Viewport) error {
	p.f.vp = vp
	return p.f.record("setViewport")
}

func (p *fakePage) Goto(ctx context.Context, url string, wait WaitUntil) error {
	p.f.url, p.f.wait = url, wait
	if p.f.failAt == "goto:block" {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.f.record("goto")
}

func (p *fakePage) EvaluateHandle(ctx context.Context, expr string) error {
	p.f.expr = expr
	return p.f.record("evaluate")
}

func (p *fakePage) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	if opts.FullPage {
		return nil, errors.New("full page capture requested")
	}
	if err := p.f.record("screenshot"); err != nil {
		return nil, err
	}
	if p.f.image != nil {
		return p.f.image, nil
	}
	w, h := p.f.vp.DeviceSize()
	return encodePNG(w, h), nil
}

// encodePNG returns a blank w×h PNG.
func encodePNG(w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
