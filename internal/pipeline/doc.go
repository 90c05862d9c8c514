// Package pipeline implements the HTML stages shared by page enhancement
// and social card rendering:
//   - Markdown preprocessing (line normalization, highlight syntax, front matter)
//   - Markdown to HTML fragment conversion via Goldmark
//   - Card page rendering from an html/template
//   - Relative path rewriting to file:// URLs for headless rendering
//   - Idempotent injection of the runtime stylesheet and script
//
// Browser automation is handled by the root sitekit package. This package
// only transforms strings and HTML trees.
package pipeline
