package sitekit

import (
	"net/url"
	"testing"
)

func TestIsExternal(t *testing.T) {
	t.Parallel()

	page, _ := url.Parse("https://docs.example.com/guide/intro/")

	tests := []struct {
		name string
		page *url.URL
		href string
		want bool
	}{
		{"other host", page, "https://github.com/alnah", true},
		{"protocol relative", page, "//cdn.example.net/a.js", true},
		{"same host", page, "https://docs.example.com/api/", false},
		{"same host other case", page, "https://DOCS.example.com/", false},
		{"same host other port", page, "https://docs.example.com:8443/", false},
		{"subdomain", page, "https://blog.example.com/", true},
		{"relative", page, "../setup/", false},
		{"root relative", page, "/api/", false},
		{"fragment", page, "#top", false},
		{"mailto", page, "mailto:team@example.com", false},
		{"invalid", page, "http://[::1", false},
		{"blank page", mustURL("about:blank"), "https://example.com/", true},
		{"nil page", nil, "https://example.com/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsExternal(tt.page, tt.href); got != tt.want {
				t.Errorf("IsExternal(%q) = %v, want %v", tt.href, got, tt.want)
			}
		})
	}
}

func mustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

const linksPage = `<html><body>
<a id="ext" href="https://github.com/alnah/go-sitekit">Source</a>
<a id="cdn" href="//cdn.example.net/lib.js">CDN</a>
<a id="int" href="/guide/">Guide</a>
<a id="abs" href="https://docs.example.com/api/">API</a>
<a id="mail" href="mailto:team@example.com">Mail</a>
</body></html>`

func TestExternalLinks_Annotated(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, linksPage, "https://docs.example.com/guide/")
	attach(t, doc)

	for _, id := range []string{"ext", "cdn"} {
		link := doc.QueryID(id)
		if got, _ := link.Attr("target"); got != "_blank" {
			t.Errorf("#%s target = %q, want _blank", id, got)
		}
		if got, _ := link.Attr("rel"); got != "noopener noreferrer" {
			t.Errorf("#%s rel = %q, want noopener noreferrer", id, got)
		}
		icon := link.Query("span.external-link-icon")
		if icon == nil {
			t.Fatalf("#%s has no icon", id)
		}
		if got, _ := icon.Attr("aria-hidden"); got != "true" {
			t.Errorf("#%s icon aria-hidden = %q, want true", id, got)
		}
		if got := icon.Text(); got != "↗" {
			t.Errorf("#%s icon = %q, want ↗", id, got)
		}
		sr := link.Query("span.sr-only")
		if sr == nil || sr.Text() != " (opens in new tab)" {
			t.Errorf("#%s screen reader text missing", id)
		}
	}

	for _, id := range []string{"int", "abs", "mail"} {
		link := doc.QueryID(id)
		if _, ok := link.Attr("target"); ok {
			t.Errorf("#%s got a target attribute", id)
		}
		if link.Query("span") != nil {
			t.Errorf("#%s got an indicator", id)
		}
	}
}

func TestExternalLinks_NoDuplicates(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, linksPage, "https://docs.example.com/guide/")

	// Two independent enhancers over the same tree.
	attach(t, doc)
	attach(t, doc)

	// And a fresh parse of already enhanced output.
	again := parseDoc(t, doc.String(), "https://docs.example.com/guide/")
	attach(t, again)

	for _, d := range []interface {
		QueryAll(string) []Element
	}{doc, again} {
		if got := len(d.QueryAll("#ext > span.external-link-icon")); got != 1 {
			t.Errorf("visible indicators = %d, want 1", got)
		}
		if got := len(d.QueryAll("#ext > span.sr-only")); got != 1 {
			t.Errorf("screen reader indicators = %d, want 1", got)
		}
	}
}
