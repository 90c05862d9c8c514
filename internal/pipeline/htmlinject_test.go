package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no escape needed", "body { color: red; }", "body { color: red; }"},
		{"escapes style close", "</style>", `<\/style>`},
		{"multiple occurrences", "</a></b>", `<\/a><\/b>`},
		{"mixed case sTyLe", "</sTyLe>", `<\/sTyLe>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	injector := &CSSInjection{}
	css := "body{color:red}"
	block := `<style data-sitekit-runtime="">body{color:red}</style>`

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{
			name: "before head end",
			html: "<html><head><title>T</title></head><body></body></html>",
			css:  css,
			want: "<html><head><title>T</title>" + block + "</head><body></body></html>",
		},
		{
			name: "uppercase head",
			html: "<HTML><HEAD></HEAD><BODY></BODY></HTML>",
			css:  css,
			want: "<HTML><HEAD>" + block + "</HEAD><BODY></BODY></HTML>",
		},
		{
			name: "after body open without head",
			html: `<body class="x"><p>Hi</p></body>`,
			css:  css,
			want: `<body class="x">` + block + `<p>Hi</p></body>`,
		},
		{
			name: "prepend to fragment",
			html: "<p>Hi</p>",
			css:  css,
			want: block + "<p>Hi</p>",
		},
		{
			name: "empty css",
			html: "<p>Hi</p>",
			css:  "",
			want: "<p>Hi</p>",
		},
		{
			name: "already injected",
			html: "<head>" + block + "</head>",
			css:  "p{}",
			want: "<head>" + block + "</head>",
		},
		{
			name: "injected block rendered by a parser",
			html: `<head><style data-sitekit-runtime="">p{}</style></head>`,
			css:  css,
			want: `<head><style data-sitekit-runtime="">p{}</style></head>`,
		},
		{
			name: "sanitized",
			html: "<p></p>",
			css:  "</style><script>",
			want: `<style data-sitekit-runtime=""><\/style><script></style><p></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := injector.InjectCSS(context.Background(), tt.html, tt.css); got != tt.want {
				t.Errorf("InjectCSS() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	html := "<html><head></head><body>Hello</body></html>"
	if got := (&CSSInjection{}).InjectCSS(ctx, html, "p{}"); got != html {
		t.Errorf("InjectCSS() with cancelled context = %q, want unchanged", got)
	}
}

func TestInjectScript(t *testing.T) {
	t.Parallel()

	injector := &ScriptInjection{}

	tests := []struct {
		name  string
		html  string
		js    string
		attrs map[string]string
		want  string
	}{
		{
			name: "before body end",
			html: "<html><body><p>Hi</p></body></html>",
			js:   "init();",
			want: `<html><body><p>Hi</p><script data-sitekit-runtime="">init();</script></body></html>`,
		},
		{
			name:  "sorted escaped attributes",
			html:  "<body></body>",
			js:    "x",
			attrs: map[string]string{"data-worker": "/sw.js", "data-scroll-policy": `a"b`},
			want:  `<body><script data-sitekit-runtime="" data-scroll-policy="a&#34;b" data-worker="/sw.js">x</script></body>`,
		},
		{
			name: "append without body",
			html: "<p>Hi</p>",
			js:   "x",
			want: `<p>Hi</p><script data-sitekit-runtime="">x</script>`,
		},
		{
			name: "escapes closing tag",
			html: "<body></body>",
			js:   `s = "</script>";`,
			want: `<body><script data-sitekit-runtime="">s = "<\/script>";</script></body>`,
		},
		{
			name: "already injected",
			html: `<body><script data-sitekit-runtime="">x</script></body>`,
			js:   "y",
			want: `<body><script data-sitekit-runtime="">x</script></body>`,
		},
		{
			name: "empty script",
			html: "<body></body>",
			js:   "",
			want: "<body></body>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := injector.InjectScript(context.Background(), tt.html, tt.js, tt.attrs); got != tt.want {
				t.Errorf("InjectScript() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestHasRuntimeBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		tag  string
		want bool
	}{
		{"plain style", "<style>p{}</style>", "style", false},
		{"marked style", "<style data-sitekit-runtime>p{}</style>", "style", true},
		{"marked script is not a style", "<script data-sitekit-runtime></script>", "style", false},
		{"second script marked", `<script src="a.js"></script><SCRIPT DATA-SITEKIT-RUNTIME="">`, "script", true},
		{"marker only in text", "<p>data-sitekit-runtime</p><script></script>", "script", false},
		{"unterminated tag", "<script data-sitekit", "script", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := HasRuntimeBlock(tt.html, tt.tag); got != tt.want {
				t.Errorf("HasRuntimeBlock(%q, %q) = %v, want %v", tt.html, tt.tag, got, tt.want)
			}
		})
	}
}

func TestInject_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	page := "<html><head></head><body><p>x</p></body></html>"

	once := (&ScriptInjection{}).InjectScript(ctx, (&CSSInjection{}).InjectCSS(ctx, page, "p{}"), "x()", nil)
	twice := (&ScriptInjection{}).InjectScript(ctx, (&CSSInjection{}).InjectCSS(ctx, once, "p{}"), "x()", nil)

	if once != twice {
		t.Errorf("second injection changed output:\n%s\n%s", once, twice)
	}
	if strings.Count(twice, RuntimeMarker) != 2 {
		t.Errorf("marker count = %d, want 2", strings.Count(twice, RuntimeMarker))
	}
}
