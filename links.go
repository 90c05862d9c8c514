package sitekit

import (
	"net/url"
	"strings"
)

// External link markup.
const (
	externalIconClass = "external-link-icon"
	srOnlyClass       = "sr-only"
	externalIcon      = "↗" // ↗
	externalSRText    = " (opens in new tab)"
)

// IsExternal reports whether href, resolved against page, points to a
// host other than the page's own. Links without a host (relative paths,
// mailto:, fragments) are internal.
func IsExternal(page *url.URL, href string) bool {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return false
	}
	if page != nil {
		ref = page.ResolveReference(ref)
	}
	host := ref.Hostname()
	if host == "" {
		return false
	}
	if page == nil {
		return true
	}
	return !strings.EqualFold(host, page.Hostname())
}

// annotateExternalLinks opens external links in an isolated new context
// and appends a visible and a screen-reader indicator, once per link.
func (e *Enhancer) annotateExternalLinks() {
	e.mu.Lock()
	defer e.mu.Unlock()

	loc := e.doc.Location()
	annotated := 0
	for _, link := range e.doc.QueryAll(e.cfg.selectors.Links) {
		if _, done := link.Attr(markerExternal); done {
			continue
		}
		href, _ := link.Attr("href")
		if !IsExternal(loc, href) {
			continue
		}

		link.SetAttr("target", "_blank")
		link.SetAttr("rel", "noopener noreferrer")

		icon := e.doc.CreateElement("span")
		icon.AddClass(externalIconClass)
		icon.SetAttr("aria-hidden", "true")
		icon.SetText(externalIcon)
		link.AppendChild(icon)

		sr := e.doc.CreateElement("span")
		sr.AddClass(srOnlyClass)
		sr.SetText(externalSRText)
		link.AppendChild(sr)

		link.SetAttr(markerExternal, "")
		annotated++
	}
	if annotated > 0 {
		e.log.Debug("annotated external links", "count", annotated)
	}
}
