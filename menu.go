package sitekit

import "strconv"

// hiddenClass hides the mobile menu.
const hiddenClass = "hidden"

// attachMobileMenu toggles the menu's hidden class on each click of its
// button and mirrors the state in aria-expanded. Pages without both
// elements are left alone.
func (e *Enhancer) attachMobileMenu() []func() {
	button := firstMatch(e.doc, e.cfg.selectors.MenuButton)
	menu := firstMatch(e.doc, e.cfg.selectors.Menu)
	if button == nil || menu == nil {
		return nil
	}

	e.mu.Lock()
	setExpanded(button, menu)
	e.mu.Unlock()

	return []func(){button.On(EventClick, func(*Event) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if menu.HasClass(hiddenClass) {
			menu.RemoveClass(hiddenClass)
		} else {
			menu.AddClass(hiddenClass)
		}
		setExpanded(button, menu)
		e.log.Debug("menu toggled", "open", !menu.HasClass(hiddenClass))
	})}
}

func setExpanded(button, menu Element) {
	button.SetAttr("aria-expanded", strconv.FormatBool(!menu.HasClass(hiddenClass)))
}

func firstMatch(doc Document, selector string) Element {
	if all := doc.QueryAll(selector); len(all) > 0 {
		return all[0]
	}
	return nil
}
