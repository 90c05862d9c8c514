package htmldom

import (
	"golang.org/x/net/html"

	"github.com/alnah/go-sitekit/dom"
)

func (d *Document) addListener(n *html.Node, event string, h dom.EventHandler) (remove func()) {
	l := &listener{h: h}
	if d.listeners[n] == nil {
		d.listeners[n] = make(map[string][]*listener)
	}
	d.listeners[n][event] = append(d.listeners[n][event], l)

	return func() {
		byType := d.listeners[n]
		if byType == nil {
			return
		}
		byType[event] = removeListener(byType[event], l)
		if len(byType[event]) == 0 {
			delete(byType, event)
		}
		if len(byType) == 0 {
			delete(d.listeners, n)
		}
	}
}

func removeListener(list []*listener, l *listener) []*listener {
	for i, x := range list {
		if x == l {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// On implements dom.Document for window-level events.
func (d *Document) On(event string, h dom.EventHandler) (remove func()) {
	l := &listener{h: h}
	d.window[event] = append(d.window[event], l)
	return func() {
		d.window[event] = removeListener(d.window[event], l)
		if len(d.window[event]) == 0 {
			delete(d.window, event)
		}
	}
}

// Dispatch delivers e to target and then bubbles it through its ancestors.
// It returns true when no listener prevented the default action.
func (d *Document) Dispatch(target dom.Element, e *dom.Event) bool {
	n, ok := d.unwrap(target)
	if !ok {
		return true
	}
	e.Target = target

	for cur := n; cur != nil; cur = cur.Parent {
		byType := d.listeners[cur]
		if byType == nil {
			continue
		}
		e.CurrentTarget = d.wrap(cur)
		for _, l := range append([]*listener(nil), byType[e.Type]...) {
			l.h(e)
		}
		if e.PropagationStopped() {
			break
		}
	}
	e.CurrentTarget = nil
	return !e.DefaultPrevented()
}

// Click dispatches a click event to el.
func (d *Document) Click(el dom.Element) *dom.Event {
	e := dom.NewEvent(dom.EventClick)
	d.Dispatch(el, e)
	return e
}

// KeyDown dispatches a keydown event for key to el.
func (d *Document) KeyDown(el dom.Element, key string) *dom.Event {
	e := dom.NewKeyEvent(key)
	d.Dispatch(el, e)
	return e
}

// DispatchWindow delivers a window-level event.
func (d *Document) DispatchWindow(e *dom.Event) bool {
	for _, l := range append([]*listener(nil), d.window[e.Type]...) {
		l.h(e)
	}
	return !e.DefaultPrevented()
}

// ScrollTo sets the scroll offset and dispatches a window scroll event.
func (d *Document) ScrollTo(y float64) {
	d.scrollY = y
	d.DispatchWindow(dom.NewEvent(dom.EventScroll))
}

// Load dispatches the window load event.
func (d *Document) Load() {
	d.DispatchWindow(dom.NewEvent(dom.EventLoad))
}

// ListenerCount returns the number of listeners on el for event.
func (d *Document) ListenerCount(el dom.Element, event string) int {
	n, ok := d.unwrap(el)
	if !ok {
		return 0
	}
	return len(d.listeners[n][event])
}

// TotalListeners counts every registered listener, element and window.
func (d *Document) TotalListeners() int {
	total := 0
	for _, byType := range d.listeners {
		for _, ls := range byType {
			total += len(ls)
		}
	}
	for _, ls := range d.window {
		total += len(ls)
	}
	return total
}
