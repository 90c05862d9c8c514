package sitekit

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Feature selects enhancer behaviors.
type Feature uint16

// Enhancer behaviors. Each is independent of the others.
const (
	FeatureCopyButtons Feature = 1 << iota
	FeatureSmoothScroll
	FeatureTabKeys
	FeatureExternalLinks
	FeatureFontsMarker
	FeatureScrollMarker
	FeatureWorker
	FeatureCardReveal
	FeatureActiveNav
	FeatureMobileMenu

	AllFeatures = FeatureCopyButtons | FeatureSmoothScroll | FeatureTabKeys |
		FeatureExternalLinks | FeatureFontsMarker | FeatureScrollMarker |
		FeatureWorker | FeatureCardReveal | FeatureActiveNav | FeatureMobileMenu
)

// Has reports whether every feature in f2 is enabled in f.
func (f Feature) Has(f2 Feature) bool {
	return f&f2 == f2
}

// featureNames maps the names used in config files and flags.
var featureNames = map[string]Feature{
	"copy":     FeatureCopyButtons,
	"scroll":   FeatureSmoothScroll,
	"tabs":     FeatureTabKeys,
	"links":    FeatureExternalLinks,
	"fonts":    FeatureFontsMarker,
	"scrolled": FeatureScrollMarker,
	"worker":   FeatureWorker,
	"cards":    FeatureCardReveal,
	"nav":      FeatureActiveNav,
	"menu":     FeatureMobileMenu,
}

// FeatureNames returns the accepted feature names, sorted.
func FeatureNames() []string {
	names := make([]string, 0, len(featureNames))
	for name := range featureNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// disabledFeatureNames returns the sorted names of behaviors missing from f.
func disabledFeatureNames(f Feature) []string {
	var off []string
	for _, name := range FeatureNames() {
		if !f.Has(featureNames[name]) {
			off = append(off, name)
		}
	}
	return off
}

// ParseFeatures combines named features (case-insensitive). An empty list
// yields zero.
func ParseFeatures(names []string) (Feature, error) {
	var f Feature
	for _, name := range names {
		v, ok := featureNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("%w: %q (available: %s)", ErrUnknownFeature, name, strings.Join(FeatureNames(), ", "))
		}
		f |= v
	}
	return f, nil
}

// ScrollPolicy decides whether an in-page anchor click suppresses the
// default navigation when its target does not exist.
type ScrollPolicy string

const (
	// PreventAlways suppresses navigation even when the target is missing.
	PreventAlways ScrollPolicy = "always"
	// PreventWhenFound suppresses navigation only when a target exists,
	// leaving standard anchor behavior otherwise.
	PreventWhenFound ScrollPolicy = "found"
)

// ParseScrollPolicy parses a policy name (case-insensitive).
func ParseScrollPolicy(s string) (ScrollPolicy, error) {
	switch p := ScrollPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PreventAlways, PreventWhenFound:
		return p, nil
	case "":
		return PreventAlways, nil
	default:
		return "", fmt.Errorf("%w: %q (must be always or found)", ErrInvalidScrollPolicy, s)
	}
}

// Selectors locates the elements each behavior decorates.
type Selectors struct {
	CodeBlocks string // copy controls
	Anchors    string // smooth scroll
	TabInputs  string // tab keyboard navigation; grouped by parent
	Links      string // external link annotation
	Cards      string // card reveal
	NavLinks   string // active navigation
	MenuButton string // mobile menu toggle; first match only
	Menu       string // mobile menu; first match only
}

// DefaultSelectors matches the markup produced by MkDocs Material.
func DefaultSelectors() Selectors {
	return Selectors{
		CodeBlocks: "pre > code",
		Anchors:    `a[href^="#"]`,
		TabInputs:  ".tabbed-set > input",
		Links:      "a[href]",
		Cards:      ".grid.cards > div",
		NavLinks:   ".md-nav__link",
		MenuButton: "[data-mobile-menu-button]",
		Menu:       "[data-mobile-menu]",
	}
}

// Defaults for enhancer behaviors.
const (
	DefaultAckDuration     = 2 * time.Second
	DefaultScrollThreshold = 10.0
	DefaultWorkerURL       = "/sw.js"
	cardRevealStagger      = 100 * time.Millisecond
)

// enhancerConfig holds internal configuration for Enhancer.
type enhancerConfig struct {
	logger          *log.Logger
	clock           Clock
	clipboard       Clipboard
	worker          WorkerRegistrar
	workerURL       string
	selectors       Selectors
	features        Feature
	scrollPolicy    ScrollPolicy
	pushHistory     bool
	scrollThreshold float64
	ackDuration     time.Duration
}

func defaultEnhancerConfig() enhancerConfig {
	return enhancerConfig{
		logger:          log.Default(),
		clock:           SystemClock(),
		clipboard:       noClipboard{},
		workerURL:       DefaultWorkerURL,
		selectors:       DefaultSelectors(),
		features:        AllFeatures,
		scrollPolicy:    PreventAlways,
		pushHistory:     true,
		scrollThreshold: DefaultScrollThreshold,
		ackDuration:     DefaultAckDuration,
	}
}

// EnhancerOption configures an Enhancer.
type EnhancerOption func(*enhancerConfig)

// WithLogger sets the logger used for failures the enhancer swallows.
func WithLogger(l *log.Logger) EnhancerOption {
	return func(c *enhancerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces the wall clock, typically with a manual test clock.
func WithClock(clk Clock) EnhancerOption {
	return func(c *enhancerConfig) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithClipboard sets the clipboard copy controls write to. Without it every
// copy fails and is logged.
func WithClipboard(cb Clipboard) EnhancerOption {
	return func(c *enhancerConfig) {
		if cb != nil {
			c.clipboard = cb
		}
	}
}

// WithWorker registers scriptURL through r when the page loads. An empty
// scriptURL uses DefaultWorkerURL.
func WithWorker(r WorkerRegistrar, scriptURL string) EnhancerOption {
	return func(c *enhancerConfig) {
		c.worker = r
		if scriptURL != "" {
			c.workerURL = scriptURL
		}
	}
}

// WithSelectors overrides element selectors. Empty fields keep defaults.
func WithSelectors(s Selectors) EnhancerOption {
	return func(c *enhancerConfig) {
		def := &c.selectors
		if s.CodeBlocks != "" {
			def.CodeBlocks = s.CodeBlocks
		}
		if s.Anchors != "" {
			def.Anchors = s.Anchors
		}
		if s.TabInputs != "" {
			def.TabInputs = s.TabInputs
		}
		if s.Links != "" {
			def.Links = s.Links
		}
		if s.Cards != "" {
			def.Cards = s.Cards
		}
		if s.NavLinks != "" {
			def.NavLinks = s.NavLinks
		}
		if s.MenuButton != "" {
			def.MenuButton = s.MenuButton
		}
		if s.Menu != "" {
			def.Menu = s.Menu
		}
	}
}

// WithFeatures restricts the enhancer to the given behaviors.
func WithFeatures(f Feature) EnhancerOption {
	return func(c *enhancerConfig) {
		c.features = f
	}
}

// WithoutFeatures disables the given behaviors.
func WithoutFeatures(f Feature) EnhancerOption {
	return func(c *enhancerConfig) {
		c.features &^= f
	}
}

// WithScrollPolicy sets default-prevention for anchors without a target.
func WithScrollPolicy(p ScrollPolicy) EnhancerOption {
	return func(c *enhancerConfig) {
		c.scrollPolicy = p
	}
}

// WithHistory toggles pushing the fragment after a smooth scroll.
func WithHistory(enabled bool) EnhancerOption {
	return func(c *enhancerConfig) {
		c.pushHistory = enabled
	}
}

// WithScrollThreshold sets the offset above which the body is marked as
// scrolled.
func WithScrollThreshold(px float64) EnhancerOption {
	return func(c *enhancerConfig) {
		c.scrollThreshold = px
	}
}

// WithAckDuration sets how long a copy acknowledgment stays visible.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithAckDuration(d time.Duration) EnhancerOption {
	if d <= 0 {
		panic("sitekit: WithAckDuration duration must be positive")
	}
	return func(c *enhancerConfig) {
		c.ackDuration = d
	}
}
