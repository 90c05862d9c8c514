// Package htmldom implements dom.Document over golang.org/x/net/html.
//
// A Document parses a page, answers CSS selector queries through goquery,
// records listeners and dispatches synthetic events to them, and renders
// the mutated tree back to HTML. Browser-only effects (focus, scrolling,
// history, visibility, font readiness) are recorded so callers can inspect
// or trigger them.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-sitekit/dom"
)

// ScrollCall records one ScrollIntoView invocation.
type ScrollCall struct {
	Target  dom.Element
	Options dom.ScrollOptions
}

type listener struct {
	h dom.EventHandler
}

type callback struct {
	fn func()
}

// Document is an in-memory page. It is not safe for concurrent use.
type Document struct {
	root *html.Node
	loc  *url.URL

	elems     map[*html.Node]*element
	listeners map[*html.Node]map[string][]*listener
	window    map[string][]*listener
	observers map[*html.Node][]*callback
	fontWait  []*callback

	fontsReady bool
	scrollY    float64
	focused    dom.Element
	scrolls    []ScrollCall
	fragments  []string
}

// Compile-time interface check.
var _ dom.Document = (*Document)(nil)

// Parse reads an HTML page. pageURL sets Location; an empty pageURL means
// "about:blank", which has no host.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if pageURL == "" {
		pageURL = "about:blank"
	}
	loc, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL %q: %w", pageURL, err)
	}

	return &Document{
		root:      root,
		loc:       loc,
		elems:     make(map[*html.Node]*element),
		listeners: make(map[*html.Node]map[string][]*listener),
		window:    make(map[string][]*listener),
		observers: make(map[*html.Node][]*callback),
	}, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(src, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(src), pageURL)
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document. Render errors yield an empty string.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// wrap returns the unique Element for n, so interface comparisons between
// results of different queries hold.
func (d *Document) wrap(n *html.Node) dom.Element {
	if n == nil {
		return nil
	}
	if el, ok := d.elems[n]; ok {
		return el
	}
	el := &element{doc: d, n: n}
	d.elems[n] = el
	return el
}

func (d *Document) wrapAll(nodes []*html.Node) []dom.Element {
	out := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// unwrap returns the node behind an Element created by this document.
func (d *Document) unwrap(el dom.Element) (*html.Node, bool) {
	e, ok := el.(*element)
	if !ok || e == nil || e.doc != d {
		return nil, false
	}
	return e.n, true
}

func find(n *html.Node, selector string) []*html.Node {
	return goquery.NewDocumentFromNode(n).Find(selector).Nodes
}

// QueryAll implements dom.Document.
func (d *Document) QueryAll(selector string) []dom.Element {
	return d.wrapAll(find(d.root, selector))
}

// QueryID implements dom.Document.
func (d *Document) QueryID(id string) dom.Element {
	if id == "" {
		return nil
	}
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && getAttr(n, "id") == id {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return d.wrap(found)
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Element {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// DocumentElement implements dom.Document.
func (d *Document) DocumentElement() dom.Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return d.wrap(c)
		}
	}
	return nil
}

// Body implements dom.Document.
func (d *Document) Body() dom.Element {
	nodes := find(d.root, "body")
	if len(nodes) == 0 {
		return nil
	}
	return d.wrap(nodes[0])
}

// Location implements dom.Document.
func (d *Document) Location() *url.URL {
	return d.loc
}

// ScrollY implements dom.Document.
func (d *Document) ScrollY() float64 {
	return d.scrollY
}

// PushFragment implements dom.Document.
func (d *Document) PushFragment(fragment string) {
	d.fragments = append(d.fragments, fragment)
	u := *d.loc
	u.Fragment = strings.TrimPrefix(fragment, "#")
	d.loc = &u
}

// Fragments returns every fragment pushed so far.
func (d *Document) Fragments() []string {
	return append([]string(nil), d.fragments...)
}

// Focused returns the element that last received focus.
func (d *Document) Focused() dom.Element {
	return d.focused
}

// Scrolls returns every ScrollIntoView call so far.
func (d *Document) Scrolls() []ScrollCall {
	return append([]ScrollCall(nil), d.scrolls...)
}

// ObserveVisible implements dom.Document.
func (d *Document) ObserveVisible(el dom.Element, fn func()) (stop func()) {
	n, ok := d.unwrap(el)
	if !ok {
		return func() {}
	}
	cb := &callback{fn: fn}
	d.observers[n] = append(d.observers[n], cb)
	return func() {
		d.observers[n] = removeCallback(d.observers[n], cb)
		if len(d.observers[n]) == 0 {
			delete(d.observers, n)
		}
	}
}

// Reveal simulates el scrolling into the viewport.
func (d *Document) Reveal(el dom.Element) {
	n, ok := d.unwrap(el)
	if !ok {
		return
	}
	for _, cb := range append([]*callback(nil), d.observers[n]...) {
		cb.fn()
	}
}

// Observed reports whether el has at least one active visibility observer.
func (d *Document) Observed(el dom.Element) bool {
	n, ok := d.unwrap(el)
	return ok && len(d.observers[n]) > 0
}

// OnFontsLoaded implements dom.Document.
func (d *Document) OnFontsLoaded(fn func()) (stop func()) {
	if d.fontsReady {
		fn()
		return func() {}
	}
	cb := &callback{fn: fn}
	d.fontWait = append(d.fontWait, cb)
	return func() { d.fontWait = removeCallback(d.fontWait, cb) }
}

// FontsReady simulates document.fonts.ready resolving. Later calls are
// no-ops.
func (d *Document) FontsReady() {
	if d.fontsReady {
		return
	}
	d.fontsReady = true
	waiting := d.fontWait
	d.fontWait = nil
	for _, cb := range waiting {
		cb.fn()
	}
}

func removeCallback(list []*callback, cb *callback) []*callback {
	for i, c := range list {
		if c == cb {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
