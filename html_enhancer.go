package sitekit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/alnah/go-sitekit/internal/htmldom"
	"github.com/alnah/go-sitekit/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.CSSInjector    = (*pipeline.CSSInjection)(nil)
	_ pipeline.ScriptInjector = (*pipeline.ScriptInjection)(nil)
)

// HTMLEnhancer applies the page behaviors to serialized HTML at build time.
// The structural changes (copy controls, link annotations, hidden cards,
// active navigation) are written into the markup, and the runtime script
// that binds the event-driven behaviors in a browser is injected once.
//
// HTMLEnhancer is safe for concurrent use; each Enhance call works on its
// own parsed document.
type HTMLEnhancer struct {
	opts           []EnhancerOption
	cfg            enhancerConfig
	runtime        bool
	workerURL      string
	css            string
	script         string
	cssInjector    pipeline.CSSInjector
	scriptInjector pipeline.ScriptInjector
}

// htmlEnhancerConfig holds options applied by NewHTMLEnhancer.
type htmlEnhancerConfig struct {
	loader    AssetLoader
	runtime   bool
	workerURL string
	opts      []EnhancerOption
}

// HTMLEnhancerOption configures an HTMLEnhancer.
type HTMLEnhancerOption func(*htmlEnhancerConfig)

// WithAssetLoader sets the loader for the runtime stylesheet and script.
func WithAssetLoader(l AssetLoader) HTMLEnhancerOption {
	return func(c *htmlEnhancerConfig) {
		if l != nil {
			c.loader = l
		}
	}
}

// WithRuntime toggles injection of the runtime stylesheet and script.
// Without the runtime the output is decorated markup only.
func WithRuntime(enabled bool) HTMLEnhancerOption {
	return func(c *htmlEnhancerConfig) {
		c.runtime = enabled
	}
}

// WithWorkerScript makes the runtime register scriptURL as a service worker
// once the page loads. Empty disables registration.
func WithWorkerScript(scriptURL string) HTMLEnhancerOption {
	return func(c *htmlEnhancerConfig) {
		c.workerURL = scriptURL
	}
}

// WithEnhancerOptions passes options to the Enhancer run on each page. The
// scroll policy, history, threshold, acknowledgment duration and custom
// selectors are also forwarded to the runtime script.
func WithEnhancerOptions(opts ...EnhancerOption) HTMLEnhancerOption {
	return func(c *htmlEnhancerConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// NewHTMLEnhancer creates an HTMLEnhancer. Returns an error if the runtime
// assets cannot be loaded or an enhancer option is invalid.
func NewHTMLEnhancer(opts ...HTMLEnhancerOption) (*HTMLEnhancer, error) {
	c := htmlEnhancerConfig{
		loader:  defaultAssetLoader(),
		runtime: true,
	}
	for _, opt := range opts {
		opt(&c)
	}

	cfg := defaultEnhancerConfig()
	for _, opt := range c.opts {
		opt(&cfg)
	}
	if _, err := ParseScrollPolicy(string(cfg.scrollPolicy)); err != nil {
		return nil, err
	}

	h := &HTMLEnhancer{
		opts:           c.opts,
		cfg:            cfg,
		runtime:        c.runtime,
		workerURL:      c.workerURL,
		cssInjector:    &pipeline.CSSInjection{},
		scriptInjector: &pipeline.ScriptInjection{},
	}

	if h.runtime {
		var err error
		if h.css, err = c.loader.LoadStyle(EnhanceStyle); err != nil {
			return nil, fmt.Errorf("loading runtime style: %w", err)
		}
		if h.script, err = c.loader.LoadScript(EnhanceScript); err != nil {
			return nil, fmt.Errorf("loading runtime script: %w", err)
		}
	}

	return h, nil
}

// Enhance decorates htmlContent as served from pageURL and returns the new
// markup. pageURL decides which links are external and which navigation
// entry is active; it may be empty, in which case every absolute link is
// external. Enhancing the output again returns it unchanged.
func (h *HTMLEnhancer) Enhance(ctx context.Context, htmlContent, pageURL string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(htmlContent) == "" {
		return "", ErrEmptyHTML
	}
	if pageURL != "" {
		if _, err := url.Parse(pageURL); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidPageURL, err)
		}
	}

	doc, err := htmldom.ParseString(htmlContent, pageURL)
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	e, err := NewEnhancer(doc, h.opts...)
	if err != nil {
		return "", err
	}
	if err := e.Attach(ctx); err != nil {
		return "", err
	}
	e.Detach()

	out = doc.String()
	if !h.runtime {
		return out, nil
	}

	out = h.cssInjector.InjectCSS(ctx, out, h.css)
	out = h.scriptInjector.InjectScript(ctx, out, h.script, h.scriptAttrs())
	return out, ctx.Err()
}

// scriptAttrs carries the enhancer configuration to the runtime script as
// data attributes.
func (h *HTMLEnhancer) scriptAttrs() map[string]string {
	attrs := map[string]string{
		"data-scroll-policy":    string(h.cfg.scrollPolicy),
		"data-history":          strconv.FormatBool(h.cfg.pushHistory),
		"data-scroll-threshold": strconv.FormatFloat(h.cfg.scrollThreshold, 'f', -1, 64),
		"data-ack-ms":           strconv.FormatInt(h.cfg.ackDuration.Milliseconds(), 10),
	}
	if h.workerURL != "" {
		attrs["data-worker"] = h.workerURL
	}
	if off := disabledFeatureNames(h.cfg.features); len(off) > 0 {
		attrs["data-disable"] = strings.Join(off, " ")
	}
	def := DefaultSelectors()
	for _, s := range []struct {
		attr, value, fallback string
	}{
		{"data-sel-code", h.cfg.selectors.CodeBlocks, def.CodeBlocks},
		{"data-sel-anchors", h.cfg.selectors.Anchors, def.Anchors},
		{"data-sel-tabs", h.cfg.selectors.TabInputs, def.TabInputs},
		{"data-sel-links", h.cfg.selectors.Links, def.Links},
		{"data-sel-cards", h.cfg.selectors.Cards, def.Cards},
		{"data-sel-nav", h.cfg.selectors.NavLinks, def.NavLinks},
		{"data-sel-menu-button", h.cfg.selectors.MenuButton, def.MenuButton},
		{"data-sel-menu", h.cfg.selectors.Menu, def.Menu},
	} {
		if s.value != s.fallback {
			attrs[s.attr] = s.value
		}
	}
	return attrs
}
