package sitekit

import (
	"fmt"
	"strings"
	"time"
)

// Ambient marker classes.
const (
	fontsLoadedClass = "fonts-loaded"
	scrolledClass    = "scrolled"
	activeNavClass   = "md-nav__link--active"
	navListClass     = "md-nav__list"
	navNestedClass   = "md-nav__item--nested"
	navToggleClass   = "md-nav__toggle"
)

func (e *Enhancer) attachFontsMarker() func() {
	return e.doc.OnFontsLoaded(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if root := e.doc.DocumentElement(); root != nil {
			root.AddClass(fontsLoadedClass)
		}
	})
}

func (e *Enhancer) attachScrollMarker() func() {
	return e.doc.On(EventScroll, func(*Event) {
		e.mu.Lock()
		defer e.mu.Unlock()
		body := e.doc.Body()
		if body == nil {
			return
		}
		if e.doc.ScrollY() > e.cfg.scrollThreshold {
			body.AddClass(scrolledClass)
		} else {
			body.RemoveClass(scrolledClass)
		}
	})
}

// attachWorker registers the background worker once the page has loaded.
// The outcome is only logged.
func (e *Enhancer) attachWorker() func() {
	return e.doc.On(EventLoad, func(*Event) {
		e.mu.Lock()
		ctx := e.context()
		e.mu.Unlock()

		if err := e.cfg.worker.Register(ctx, e.cfg.workerURL); err != nil {
			e.log.Warn("worker registration failed", "url", e.cfg.workerURL, "err", err)
			return
		}
		e.log.Debug("worker registered", "url", e.cfg.workerURL)
	})
}

// attachCardReveal hides cards until they scroll into view, staggering
// their transitions by position. A card is unobserved after its reveal.
func (e *Enhancer) attachCardReveal() []func() {
	var cleanups []func()
	for i, card := range e.doc.QueryAll(e.cfg.selectors.Cards) {
		state, marked := card.Attr(markerCard)
		if state == "shown" {
			continue
		}
		if !marked {
			delay := cardDelay(i)
			card.SetStyle("opacity", "0")
			card.SetStyle("transform", "translateY(20px)")
			card.SetStyle("transition", fmt.Sprintf("opacity 0.5s ease %s, transform 0.5s ease %s", delay, delay))
			card.SetAttr(markerCard, "")
		}

		var stop func()
		stopped, revealed := false, false
		halt := func() {
			if !stopped && stop != nil {
				stopped = true
				stop()
			}
		}
		stop = e.doc.ObserveVisible(card, func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			card.SetStyle("opacity", "1")
			card.SetStyle("transform", "translateY(0)")
			card.SetAttr(markerCard, "shown")
			revealed = true
			halt()
		})
		// Visibility may be reported before ObserveVisible returns.
		if revealed {
			halt()
		}
		cleanups = append(cleanups, halt)
	}
	return cleanups
}

// cardDelay formats the transition delay of the card at index as CSS
// seconds.
func cardDelay(index int) string {
	d := time.Duration(index) * cardRevealStagger
	s := fmt.Sprintf("%.1f", d.Seconds())
	s = strings.TrimSuffix(s, ".0")
	return s + "s"
}

// markActiveNav highlights navigation links to the current path and
// expands their nested parents up to the enclosing list.
func (e *Enhancer) markActiveNav() {
	e.mu.Lock()
	defer e.mu.Unlock()

	loc := e.doc.Location()
	if loc == nil || loc.Path == "" {
		return
	}
	for _, link := range e.doc.QueryAll(e.cfg.selectors.NavLinks) {
		href, ok := link.Attr("href")
		if !ok || href != loc.Path {
			continue
		}
		link.AddClass(activeNavClass)

		for p := link.Parent(); p != nil && !p.HasClass(navListClass); p = p.Parent() {
			if !p.HasClass(navNestedClass) {
				continue
			}
			if toggle := p.Query("." + navToggleClass); toggle != nil {
				toggle.SetChecked(true)
			}
		}
	}
}
