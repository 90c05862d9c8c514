package hints

// Notes:
// - ForBrowserLaunch tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable
// These are acceptable gaps: we test observable behavior through environment manipulation.

import (
	"strings"
	"testing"
)

func withContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func TestForBrowserLaunch(t *testing.T) {
	tests := []struct {
		name        string
		container   bool
		env         map[string]string
		wantSandbox bool
		wantBin     bool
	}{
		{
			name:        "in CI",
			env:         map[string]string{"CI": "true"},
			wantSandbox: true,
			wantBin:     true,
		},
		{
			name:        "in Docker",
			container:   true,
			wantSandbox: true,
			wantBin:     true,
		},
		{
			name:      "sandbox already disabled",
			container: true,
			env:       map[string]string{"ROD_NO_SANDBOX": "1"},
			wantBin:   true,
		},
		{
			name: "browser bin set",
			env:  map[string]string{"ROD_BROWSER_BIN": "/usr/bin/chromium"},
		},
		{
			name:    "local machine",
			wantBin: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withContainer(t, tt.container)
			for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN"} {
				t.Setenv(k, tt.env[k])
			}

			hint := ForBrowserLaunch()

			if !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("hint format inconsistent: %q", hint)
			}
			if got := strings.Contains(hint, "ROD_NO_SANDBOX"); got != tt.wantSandbox {
				t.Errorf("sandbox suggestion = %v, want %v in %q", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("browser bin suggestion = %v, want %v in %q", got, tt.wantBin, hint)
			}
			if !strings.Contains(hint, "sitekit doctor") {
				t.Errorf("expected doctor suggestion in %q", hint)
			}
		})
	}
}

func TestForTimeout(t *testing.T) {
	hint := ForTimeout()

	if !strings.Contains(hint, "--timeout") {
		t.Error("expected --timeout flag mention")
	}
	if !strings.Contains(hint, "--wait") {
		t.Error("expected --wait flag mention")
	}
}

func TestForConfigNotFound(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{"empty paths", []string{}, "--config"},
		{"with paths", []string{"./foo.yaml", "~/.config/go-sitekit/foo.yaml"}, "create ~/.config/go-sitekit/foo.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ForConfigNotFound(tt.paths)

			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForInputNotFound(t *testing.T) {
	if hint := ForInputNotFound(""); strings.Contains(hint, "create") {
		t.Errorf("hint without default should not suggest creating a file: %q", hint)
	}
	hint := ForInputNotFound("assets/preview.html")
	if !strings.Contains(hint, "--input") || !strings.Contains(hint, "assets/preview.html") {
		t.Errorf("unexpected hint %q", hint)
	}
}

func TestForBackend(t *testing.T) {
	if hint := ForBackend(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	if hint := ForBackend([]string{"rod", "chromedp"}); !strings.Contains(hint, "rod, chromedp") {
		t.Errorf("expected backends listed, got %q", hint)
	}
}

func TestForFeature(t *testing.T) {
	if hint := ForFeature(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	if hint := ForFeature([]string{"cards", "copy"}); !strings.Contains(hint, "cards, copy") {
		t.Errorf("expected behaviors listed, got %q", hint)
	}
}

func TestForClipboard(t *testing.T) {
	orig := GOOS
	defer func() { GOOS = orig }()

	GOOS = "linux"
	if hint := ForClipboard(); !strings.Contains(hint, "xclip") {
		t.Errorf("linux hint = %q, want xclip mention", hint)
	}
	GOOS = "darwin"
	if hint := ForClipboard(); hint != "" {
		t.Errorf("darwin hint = %q, want empty", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	hints := []string{
		ForTimeout(),
		ForOutputDirectory(),
		ForInputNotFound("x.html"),
		ForBackend([]string{"rod"}),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
