package pipeline

import (
	"context"
	"html"
	"sort"
	"strings"
)

// RuntimeMarker tags the style and script blocks injected into enhanced
// pages. A page carrying it is never injected twice. Blocks are written in
// the form html.Render produces, so reparsing an injected page is stable.
const RuntimeMarker = "data-sitekit-runtime"

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a marked <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks. Content that
// already carries a marked style block is returned unchanged.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	if HasRuntimeBlock(htmlContent, "style") {
		return htmlContent
	}

	styleBlock := "<style " + RuntimeMarker + `="">` + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// ScriptInjector defines the contract for inline script injection into HTML.
type ScriptInjector interface {
	InjectScript(ctx context.Context, htmlContent, script string, attrs map[string]string) string
}

// ScriptInjection injects JavaScript as an inline <script> block.
type ScriptInjection struct{}

// InjectScript inserts a marked <script> block before </body>, or appends
// it when there is no body end tag. attrs become escaped attributes on the
// script element, in key order. Content that already carries a marked
// script block is returned unchanged.
func (s *ScriptInjection) InjectScript(ctx context.Context, htmlContent, script string, attrs map[string]string) string {
	if script == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	if HasRuntimeBlock(htmlContent, "script") {
		return htmlContent
	}

	var b strings.Builder
	b.WriteString("<script ")
	b.WriteString(RuntimeMarker)
	b.WriteString(`=""`)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(html.EscapeString(k))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[k]))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(sanitizeScript(script))
	b.WriteString("</script>")
	block := b.String()

	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.LastIndex(lowerHTML, "</body>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}

	return htmlContent + block
}

// sanitizeScript escapes closing script tags inside inline JavaScript.
func sanitizeScript(js string) string {
	js = strings.ReplaceAll(js, "</script", `<\/script`)
	return strings.ReplaceAll(js, "</SCRIPT", `<\/SCRIPT`)
}

// HasRuntimeBlock reports whether htmlContent already holds a <tag> element
// carrying RuntimeMarker.
func HasRuntimeBlock(htmlContent, tag string) bool {
	lower := strings.ToLower(htmlContent)
	open := "<" + tag
	for i := 0; ; {
		idx := strings.Index(lower[i:], open)
		if idx == -1 {
			return false
		}
		start := i + idx
		end := strings.Index(lower[start:], ">")
		if end == -1 {
			return false
		}
		if strings.Contains(lower[start:start+end], RuntimeMarker) {
			return true
		}
		i = start + end
	}
}
