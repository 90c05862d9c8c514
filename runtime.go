package sitekit

import (
	"context"
	"time"

	"github.com/alnah/go-sitekit/dom"
)

// Aliases so library users can stay in one package.
type (
	Document     = dom.Document
	Element      = dom.Element
	Event        = dom.Event
	EventHandler = dom.EventHandler
)

// Event types the enhancer listens for.
const (
	EventClick   = dom.EventClick
	EventKeyDown = dom.EventKeyDown
	EventScroll  = dom.EventScroll
	EventLoad    = dom.EventLoad
)

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(ctx context.Context, text string) error

// WriteText implements Clipboard.
func (f ClipboardFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// WorkerRegistrar registers a background update worker (a service worker
// in a browser).
type WorkerRegistrar interface {
	Register(ctx context.Context, scriptURL string) error
}

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

type noClipboard struct{}

func (noClipboard) WriteText(context.Context, string) error {
	return ErrClipboard
}
