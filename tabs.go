package sitekit

import "fmt"

// TabKey is a transition of a tab group.
type TabKey int

// Tab transitions.
const (
	TabNext  TabKey = iota + 1 // ArrowRight
	TabPrev                    // ArrowLeft
	TabFirst                   // Home
	TabLast                    // End
)

// TabKeyFor maps a KeyboardEvent.key value to a transition. Keys other
// than the arrows, Home and End report false.
func TabKeyFor(key string) (TabKey, bool) {
	switch key {
	case "ArrowRight":
		return TabNext, true
	case "ArrowLeft":
		return TabPrev, true
	case "Home":
		return TabFirst, true
	case "End":
		return TabLast, true
	default:
		return 0, false
	}
}

// TabCycle is the selection of one tab group: a circular index over n
// mutually exclusive inputs.
type TabCycle struct {
	n, i int
}

// NewTabCycle starts a cycle over n inputs with selected chosen.
func NewTabCycle(n, selected int) (*TabCycle, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: group must have at least one input, got %d", ErrInvalidTabState, n)
	}
	if selected < 0 || selected >= n {
		return nil, fmt.Errorf("%w: selection %d out of range [0, %d)", ErrInvalidTabState, selected, n)
	}
	return &TabCycle{n: n, i: selected}, nil
}

// Len returns the number of inputs in the group.
func (c *TabCycle) Len() int { return c.n }

// Selected returns the selected index.
func (c *TabCycle) Selected() int { return c.i }

// Apply performs k and returns the new selection. Unknown keys leave the
// selection unchanged.
func (c *TabCycle) Apply(k TabKey) int {
	switch k {
	case TabNext:
		c.i = (c.i + 1) % c.n
	case TabPrev:
		c.i = (c.i - 1 + c.n) % c.n
	case TabFirst:
		c.i = 0
	case TabLast:
		c.i = c.n - 1
	}
	return c.i
}

// tabGroups partitions inputs by parent, keeping document order.
func tabGroups(inputs []Element) [][]Element {
	var groups [][]Element
	index := make(map[Element]int)
	for _, in := range inputs {
		p := in.Parent()
		if p == nil {
			continue
		}
		g, ok := index[p]
		if !ok {
			g = len(groups)
			index[p] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], in)
	}
	return groups
}

func (e *Enhancer) attachTabKeys() []func() {
	var cleanups []func()
	for _, group := range tabGroups(e.doc.QueryAll(e.cfg.selectors.TabInputs)) {
		for _, input := range group {
			cleanups = append(cleanups, input.On(EventKeyDown, func(ev *Event) {
				e.selectTab(group, ev)
			}))
		}
	}
	return cleanups
}

// selectTab moves the selection of group from its checked input.
func (e *Enhancer) selectTab(group []Element, ev *Event) {
	k, ok := TabKeyFor(ev.Key)
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cycle, err := NewTabCycle(len(group), checkedIndex(group))
	if err != nil {
		e.log.Error("tab navigation", "err", err)
		return
	}
	next := cycle.Apply(k)
	for i, in := range group {
		in.SetChecked(i == next)
	}
	group[next].Focus()
	ev.PreventDefault()
}

// checkedIndex returns the index of the checked input, or 0 when none is.
func checkedIndex(group []Element) int {
	for i, in := range group {
		if in.Checked() {
			return i
		}
	}
	return 0
}
