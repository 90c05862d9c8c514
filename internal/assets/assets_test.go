package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultLoaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		load        func(string) (string, error)
		asset       string
		wantContain string
	}{
		{"LoadStyle", LoadStyle, EnhanceStyleName, ".code-actions"},
		{"LoadScript", LoadScript, EnhanceScriptName, "window.__sitekit"},
		{"LoadTemplate", LoadTemplate, CardTemplateName, "card-title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load(tt.asset)
			if err != nil {
				t.Fatalf("%s(%q) error = %v", tt.name, tt.asset, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("%s(%q) content should contain %q", tt.name, tt.asset, tt.wantContain)
			}
		})
	}
}

func TestDefaultLoaders_InvalidName(t *testing.T) {
	t.Parallel()

	for name, load := range map[string]func(string) (string, error){
		"LoadStyle":    LoadStyle,
		"LoadScript":   LoadScript,
		"LoadTemplate": LoadTemplate,
	} {
		if _, err := load("../etc/passwd"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("%s() error = %v, want ErrInvalidAssetName", name, err)
		}
	}
}

// The runtime script and the stylesheet must agree on the class names the
// Go enhancer writes.
func TestEnhanceAssets_ShareMarkup(t *testing.T) {
	t.Parallel()

	css, err := LoadStyle(EnhanceStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	js, err := LoadScript(EnhanceScriptName)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}

	for _, class := range []string{"code-actions", "md-clipboard--copied", "external-link-icon", "sr-only", "scrolled", "fonts-loaded"} {
		if !strings.Contains(js, class) {
			t.Errorf("script does not use class %q", class)
		}
		if !strings.Contains(css, class) {
			t.Errorf("stylesheet does not style class %q", class)
		}
	}
}
