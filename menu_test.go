package sitekit

import (
	"testing"
)

const menuPage = `<html><body>
<header>
  <button id="toggle" data-mobile-menu-button>Menu</button>
  <nav id="menu" class="mobile hidden" data-mobile-menu><a href="/">Home</a></nav>
  <nav id="other" class="hidden" data-mobile-menu></nav>
</header>
</body></html>`

func TestMobileMenu_Toggle(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, menuPage, "")
	attach(t, doc, WithFeatures(FeatureMobileMenu))

	button, menu := doc.QueryID("toggle"), doc.QueryID("menu")
	if got, _ := button.Attr("aria-expanded"); got != "false" {
		t.Errorf("aria-expanded before click = %q, want false", got)
	}

	steps := []struct {
		wantHidden   bool
		wantExpanded string
	}{
		{false, "true"},
		{true, "false"},
		{false, "true"},
	}
	for i, step := range steps {
		doc.Click(button)
		if got := menu.HasClass(hiddenClass); got != step.wantHidden {
			t.Errorf("click %d: hidden = %v, want %v", i+1, got, step.wantHidden)
		}
		if got, _ := button.Attr("aria-expanded"); got != step.wantExpanded {
			t.Errorf("click %d: aria-expanded = %q, want %q", i+1, got, step.wantExpanded)
		}
	}

	if !menu.HasClass("mobile") {
		t.Error("toggle removed an unrelated class")
	}
	if !doc.QueryID("other").HasClass(hiddenClass) {
		t.Error("second menu toggled; only the first match is bound")
	}
}

func TestMobileMenu_MissingParts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page string
	}{
		{"no button", `<html><body><nav data-mobile-menu class="hidden"></nav></body></html>`},
		{"no menu", `<html><body><button data-mobile-menu-button>Menu</button></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseDoc(t, tt.page, "")
			attach(t, doc, WithFeatures(FeatureMobileMenu))

			if got := doc.TotalListeners(); got != 0 {
				t.Errorf("TotalListeners() = %d, want 0", got)
			}
			if len(doc.QueryAll("[aria-expanded]")) != 0 {
				t.Error("aria-expanded set without a complete menu")
			}
		})
	}
}

func TestMobileMenu_CustomSelectorsAndDetach(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
<a href="#" class="burger">Menu</a><ul class="drawer"></ul>
</body></html>`, "")
	e := attach(t, doc,
		WithFeatures(FeatureMobileMenu),
		WithSelectors(Selectors{MenuButton: ".burger", Menu: ".drawer"}),
	)

	burger, drawer := doc.QueryAll(".burger")[0], doc.QueryAll(".drawer")[0]
	if got, _ := burger.Attr("aria-expanded"); got != "true" {
		t.Errorf("aria-expanded for a visible menu = %q, want true", got)
	}

	doc.Click(burger)
	if !drawer.HasClass(hiddenClass) {
		t.Error("menu not hidden after click")
	}

	e.Detach()
	doc.Click(burger)
	if !drawer.HasClass(hiddenClass) {
		t.Error("menu toggled after Detach")
	}
}

func TestMobileMenu_StaticPassIsStable(t *testing.T) {
	t.Parallel()

	h := newHTMLEnhancer(t)
	once, err := h.Enhance(t.Context(), menuPage, "")
	if err != nil {
		t.Fatalf("Enhance() error = %v", err)
	}
	twice, err := h.Enhance(t.Context(), once, "")
	if err != nil {
		t.Fatalf("Enhance() second pass error = %v", err)
	}
	if once != twice {
		t.Error("second pass changed the page")
	}

	doc := parseDoc(t, once, "")
	if got, _ := doc.QueryID("toggle").Attr("aria-expanded"); got != "false" {
		t.Errorf("aria-expanded = %q, want false", got)
	}
	if !doc.QueryID("menu").HasClass(hiddenClass) {
		t.Error("static pass changed menu visibility")
	}
}
