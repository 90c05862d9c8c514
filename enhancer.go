package sitekit

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Marker attributes written on elements the enhancer has decorated, so a
// second pass over the same tree adds nothing.
const (
	markerCopy     = "data-sitekit-copy"
	markerExternal = "data-sitekit-external"
	markerCard     = "data-sitekit-card"
)

// Enhancer binds page behaviors to one document.
//
// Listener callbacks and acknowledgment timers run one at a time, like the
// event loop of a browser tab. Enhancer is safe for concurrent use, but the
// Document it wraps is only touched from those callbacks and from Attach.
type Enhancer struct {
	doc Document
	cfg enhancerConfig
	log *log.Logger

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	attached bool
	cleanups []func()
	acks     map[Element]Timer
}

// NewEnhancer creates an Enhancer for doc. Nothing is mutated until Attach.
func NewEnhancer(doc Document, opts ...EnhancerOption) (*Enhancer, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	cfg := defaultEnhancerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, err := ParseScrollPolicy(string(cfg.scrollPolicy)); err != nil {
		return nil, err
	}

	return &Enhancer{
		doc:  doc,
		cfg:  cfg,
		log:  cfg.logger.WithPrefix("enhance"),
		acks: make(map[Element]Timer),
	}, nil
}

// Attach applies every enabled behavior to the document. ctx bounds the
// asynchronous work behaviors start (clipboard writes, worker
// registration) until Detach. Calling Attach twice without Detach returns
// ErrAlreadyAttached.
func (e *Enhancer) Attach(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	e.mu.Lock()
	if e.attached {
		e.mu.Unlock()
		return ErrAlreadyAttached
	}
	e.attached = true
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.mu.Unlock()

	// Behaviors may run callbacks synchronously (fonts already loaded), so
	// they register without holding the lock.
	var cleanups []func()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("attaching behaviors: panic: %v", r)
			for _, c := range cleanups {
				c()
			}
			e.mu.Lock()
			e.attached = false
			e.cancel()
			e.mu.Unlock()
		}
	}()

	add := func(c ...func()) { cleanups = append(cleanups, c...) }
	f := e.cfg.features

	if f.Has(FeatureCopyButtons) {
		add(e.attachCopyControls()...)
	}
	if f.Has(FeatureSmoothScroll) {
		add(e.attachSmoothScroll()...)
	}
	if f.Has(FeatureTabKeys) {
		add(e.attachTabKeys()...)
	}
	if f.Has(FeatureExternalLinks) {
		e.annotateExternalLinks()
	}
	if f.Has(FeatureFontsMarker) {
		add(e.attachFontsMarker())
	}
	if f.Has(FeatureScrollMarker) {
		add(e.attachScrollMarker())
	}
	if f.Has(FeatureWorker) && e.cfg.worker != nil {
		add(e.attachWorker())
	}
	if f.Has(FeatureCardReveal) {
		add(e.attachCardReveal()...)
	}
	if f.Has(FeatureActiveNav) {
		e.markActiveNav()
	}
	if f.Has(FeatureMobileMenu) {
		add(e.attachMobileMenu()...)
	}

	e.mu.Lock()
	e.cleanups = cleanups
	e.mu.Unlock()

	e.log.Debug("attached", "listeners", len(cleanups))
	return nil
}

// Detach removes every listener and observer registered by Attach and
// stops pending acknowledgment timers. DOM changes stay in place. Detach
// on a detached Enhancer is a no-op.
func (e *Enhancer) Detach() {
	e.mu.Lock()
	if !e.attached {
		e.mu.Unlock()
		return
	}
	cleanups := e.cleanups
	e.cleanups = nil
	for el, t := range e.acks {
		t.Stop()
		e.resetAck(el)
		delete(e.acks, el)
	}
	e.attached = false
	e.cancel()
	e.mu.Unlock()

	for _, c := range cleanups {
		c()
	}
}

// Attached reports whether Attach has run without a matching Detach.
func (e *Enhancer) Attached() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attached
}

// context returns the attach context. Callers hold e.mu.
func (e *Enhancer) context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// previousSibling returns the element immediately before el under the same
// parent, or nil.
func previousSibling(el Element) Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}
	var prev Element
	for _, c := range parent.Children() {
		if c == el {
			return prev
		}
		prev = c
	}
	return nil
}
