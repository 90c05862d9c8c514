package sitekit

import "strings"

// Copy control markup.
const (
	copyActionsClass = "code-actions"
	copyButtonClass  = "md-clipboard"
	copyIconClass    = "md-icon"
	copiedClass      = "md-clipboard--copied"
	copyIcon         = "content_copy"
	copiedIcon       = "check"
)

// attachCopyControls adds a copy button before every code block and binds
// its click handler. Blocks decorated by an earlier pass reuse their button.
func (e *Enhancer) attachCopyControls() []func() {
	var cleanups []func()
	for _, block := range e.doc.QueryAll(e.cfg.selectors.CodeBlocks) {
		button := e.copyButtonFor(block)
		if button == nil {
			continue
		}
		cleanups = append(cleanups, button.On(EventClick, func(ev *Event) {
			e.copyBlock(block, button)
		}))
	}
	return cleanups
}

// copyButtonFor returns the copy button of block, inserting one if absent.
func (e *Enhancer) copyButtonFor(block Element) Element {
	if _, done := block.Attr(markerCopy); done {
		prev := previousSibling(block)
		if prev == nil || !prev.HasClass(copyActionsClass) {
			return nil
		}
		return prev.Query("button." + copyButtonClass)
	}

	parent := block.Parent()
	if parent == nil {
		return nil
	}

	button := e.doc.CreateElement("button")
	button.AddClass(copyButtonClass)
	button.SetAttr("type", "button")
	button.SetAttr("title", "Copy to clipboard")
	button.SetAttr("aria-label", "Copy code")

	icon := e.doc.CreateElement("span")
	icon.AddClass(copyIconClass)
	icon.SetText(copyIcon)
	button.AppendChild(icon)

	wrapper := e.doc.CreateElement("div")
	wrapper.AddClass(copyActionsClass)
	wrapper.AppendChild(button)

	parent.InsertBefore(wrapper, block)
	block.SetAttr(markerCopy, "")
	return button
}

// copyText returns the text a copy control writes for block: the inner
// code element when the block is a highlight container, else the block.
func copyText(block Element) string {
	if !strings.EqualFold(block.TagName(), "code") {
		if code := block.Query("code"); code != nil {
			return code.Text()
		}
	}
	return block.Text()
}

// copyBlock writes the text of block to the clipboard without holding
// e.mu, so a slow clipboard does not stall other handlers.
func (e *Enhancer) copyBlock(block, button Element) {
	e.mu.Lock()
	text := copyText(block)
	ctx := e.context()
	e.mu.Unlock()

	if err := e.cfg.clipboard.WriteText(ctx, text); err != nil {
		e.log.Error("copy failed", "err", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.attached {
		return
	}

	if t, ok := e.acks[button]; ok {
		t.Stop()
	}
	if icon := button.Query("." + copyIconClass); icon != nil {
		icon.SetText(copiedIcon)
	}
	button.AddClass(copiedClass)

	var t Timer
	t = e.cfg.clock.AfterFunc(e.cfg.ackDuration, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		// A later click replaced this timer.
		if e.acks[button] != t {
			return
		}
		delete(e.acks, button)
		e.resetAck(button)
	})
	e.acks[button] = t
	e.log.Debug("copied", "bytes", len(text))
}

// resetAck restores the idle look of a copy button. Callers hold e.mu.
func (e *Enhancer) resetAck(button Element) {
	if icon := button.Query("." + copyIconClass); icon != nil {
		icon.SetText(copyIcon)
	}
	button.RemoveClass(copiedClass)
}
