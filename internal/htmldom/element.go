package htmldom

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-sitekit/dom"
)

type element struct {
	doc *Document
	n   *html.Node
}

// Compile-time interface check.
var _ dom.Element = (*element)(nil)

func (e *element) TagName() string {
	return strings.ToUpper(e.n.Data)
}

func (e *element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return b.String()
}

func (e *element) SetText(text string) {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *element) Attr(name string) (string, bool) {
	return lookupAttr(e.n, name)
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// getAttr returns the value of key on n, or "" when absent.
func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func (e *element) SetAttr(name, value string) {
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

func (e *element) RemoveAttr(name string) {
	attrs := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.n.Attr = attrs
}

func (e *element) classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

func (e *element) AddClass(names ...string) {
	classes := e.classes()
	for _, name := range names {
		if !slices.Contains(classes, name) {
			classes = append(classes, name)
		}
	}
	e.SetAttr("class", strings.Join(classes, " "))
}

func (e *element) RemoveClass(names ...string) {
	if _, ok := e.Attr("class"); !ok {
		return
	}
	var kept []string
	for _, c := range e.classes() {
		if !slices.Contains(names, c) {
			kept = append(kept, c)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

func (e *element) HasClass(name string) bool {
	return slices.Contains(e.classes(), name)
}

func (e *element) Parent() dom.Element {
	p := e.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

func (e *element) Children() []dom.Element {
	var out []dom.Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

func (e *element) AppendChild(child dom.Element) {
	c, ok := e.doc.unwrap(child)
	if !ok {
		return
	}
	detach(c)
	e.n.AppendChild(c)
}

func (e *element) InsertBefore(child, ref dom.Element) {
	c, ok := e.doc.unwrap(child)
	if !ok {
		return
	}
	if ref == nil {
		e.AppendChild(child)
		return
	}
	r, ok := e.doc.unwrap(ref)
	if !ok || r.Parent != e.n {
		return
	}
	detach(c)
	e.n.InsertBefore(c, r)
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func (e *element) Query(selector string) dom.Element {
	nodes := find(e.n, selector)
	if len(nodes) == 0 {
		return nil
	}
	return e.doc.wrap(nodes[0])
}

func (e *element) On(event string, h dom.EventHandler) (remove func()) {
	return e.doc.addListener(e.n, event, h)
}

func (e *element) Focus() {
	e.doc.focused = e
}

func (e *element) ScrollIntoView(opts dom.ScrollOptions) {
	e.doc.scrolls = append(e.doc.scrolls, ScrollCall{Target: e, Options: opts})
}

func (e *element) Checked() bool {
	_, ok := e.Attr("checked")
	return ok
}

func (e *element) SetChecked(checked bool) {
	if checked {
		e.SetAttr("checked", "")
		return
	}
	e.RemoveAttr("checked")
}

// SetStyle updates one declaration of the inline style attribute, keeping
// the order of the others.
func (e *element) SetStyle(property, value string) {
	raw, _ := e.Attr("style")
	var decls []string
	replaced := false
	for _, d := range strings.Split(raw, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name, _, _ := strings.Cut(d, ":")
		if strings.EqualFold(strings.TrimSpace(name), property) {
			if !replaced {
				decls = append(decls, property+": "+value)
				replaced = true
			}
			continue
		}
		decls = append(decls, d)
	}
	if !replaced {
		decls = append(decls, property+": "+value)
	}
	e.SetAttr("style", strings.Join(decls, "; "))
}

// Style returns the inline value of property, or "" when unset.
func Style(el dom.Element, property string) string {
	raw, _ := el.Attr("style")
	for _, d := range strings.Split(raw, ";") {
		name, val, ok := strings.Cut(d, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
