// Package dom defines the document abstraction the page enhancer runs
// against.
//
// The interfaces mirror the small slice of the browser DOM the enhancer
// touches: selection, element creation, attributes and classes, event
// listeners, focus, scrolling, visibility and font readiness. Any value
// implementing them can be enhanced, which keeps the enhancer testable
// without a browser. The in-memory implementation lives in
// internal/htmldom.
//
// Implementations are not required to be safe for concurrent use. The
// enhancer serializes its own callbacks, the same way a browser event loop
// would.
package dom

import "net/url"

// EventHandler receives a dispatched event.
type EventHandler func(e *Event)

// ScrollOptions mirrors scrollIntoView options.
type ScrollOptions struct {
	Behavior string // "smooth", "auto", "instant"
	Block    string // "start", "center", "end", "nearest"
}

// Document is a loaded page.
type Document interface {
	// QueryAll returns every element matching a CSS selector, in document
	// order. An invalid selector matches nothing.
	QueryAll(selector string) []Element

	// QueryID returns the element with the given id, or nil.
	QueryID(id string) Element

	// CreateElement returns a detached element.
	CreateElement(tag string) Element

	DocumentElement() Element
	Body() Element

	// Location is the page URL. Callers must not mutate it.
	Location() *url.URL

	// On subscribes to window-level events such as "scroll" and "load".
	On(event string, h EventHandler) (remove func())

	// ScrollY is the vertical scroll offset in CSS pixels.
	ScrollY() float64

	// ObserveVisible calls fn each time el becomes visible until stop is
	// called.
	ObserveVisible(el Element, fn func()) (stop func())

	// OnFontsLoaded calls fn once web fonts are ready. If they already are,
	// fn runs immediately.
	OnFontsLoaded(fn func()) (stop func())

	// PushFragment records a history entry for "#fragment" without
	// navigating.
	PushFragment(fragment string)
}

// Element is a node in a Document.
type Element interface {
	TagName() string

	// Text is the concatenated text content of the element and its
	// descendants.
	Text() string
	SetText(text string)

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)

	AddClass(names ...string)
	RemoveClass(names ...string)
	HasClass(name string) bool

	// Parent returns nil for the root and for detached elements.
	Parent() Element
	Children() []Element
	AppendChild(child Element)
	// InsertBefore inserts child before ref, which must be a child of the
	// receiver. A nil ref appends.
	InsertBefore(child, ref Element)

	// Query returns the first descendant matching selector, or nil.
	Query(selector string) Element

	On(event string, h EventHandler) (remove func())

	Focus()
	ScrollIntoView(opts ScrollOptions)

	Checked() bool
	SetChecked(checked bool)

	SetStyle(property, value string)
}
