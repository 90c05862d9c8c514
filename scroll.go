package sitekit

import (
	"strings"

	"github.com/alnah/go-sitekit/dom"
)

func (e *Enhancer) attachSmoothScroll() []func() {
	var cleanups []func()
	for _, anchor := range e.doc.QueryAll(e.cfg.selectors.Anchors) {
		cleanups = append(cleanups, anchor.On(EventClick, func(ev *Event) {
			e.scrollToFragment(anchor, ev)
		}))
	}
	return cleanups
}

// scrollToFragment handles a click on an in-page anchor. A bare "#" has no
// target; otherwise the target is the element whose id is the fragment.
func (e *Enhancer) scrollToFragment(anchor Element, ev *Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	href, _ := anchor.Attr("href")
	id := strings.TrimPrefix(href, "#")

	var target Element
	if id != "" {
		target = e.doc.QueryID(id)
	}

	if target == nil {
		if e.cfg.scrollPolicy == PreventAlways {
			ev.PreventDefault()
		}
		return
	}

	ev.PreventDefault()
	target.ScrollIntoView(dom.ScrollOptions{Behavior: "smooth", Block: "start"})
	if e.cfg.pushHistory {
		e.doc.PushFragment(href)
	}
}
