package sitekit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAssetLoader_EmptyPath(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader(\"\") error = %v", err)
	}

	css, err := loader.LoadStyle(EnhanceStyle)
	if err != nil {
		t.Errorf("LoadStyle(%q) error = %v", EnhanceStyle, err)
	}
	if css == "" {
		t.Error("LoadStyle returned empty CSS for the enhance style")
	}

	js, err := loader.LoadScript(EnhanceScript)
	if err != nil {
		t.Errorf("LoadScript(%q) error = %v", EnhanceScript, err)
	}
	if !strings.Contains(js, "__sitekit") {
		t.Error("LoadScript returned a script without the runtime guard")
	}

	tmpl, err := loader.LoadTemplate(CardTemplate)
	if err != nil {
		t.Errorf("LoadTemplate(%q) error = %v", CardTemplate, err)
	}
	if !strings.Contains(tmpl, "{{") {
		t.Error("LoadTemplate returned content without template actions")
	}
}

func TestNewAssetLoader_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewAssetLoader("/nonexistent/path/to/assets")
	if err == nil {
		t.Fatal("NewAssetLoader() expected error for invalid path, got nil")
	}
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewAssetLoader() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestNewAssetLoader_FallsBackToEmbedded(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetLoader() error = %v", err)
	}

	css, err := loader.LoadStyle(CardStyle)
	if err != nil {
		t.Errorf("LoadStyle with fallback error = %v", err)
	}
	if css == "" {
		t.Error("fallback to embedded style failed")
	}
}

func TestNewAssetLoader_CustomOverride(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	files := map[string]string{
		"styles/enhance.css":  "/* custom */ body { color: red; }",
		"scripts/enhance.js":  "console.log('custom');",
		"templates/card.html": "<p>{{.Title}}</p>",
	}
	for name, content := range files {
		path := filepath.Join(tmpDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	loader, err := NewAssetLoader(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetLoader(%q) error = %v", tmpDir, err)
	}

	tests := []struct {
		name string
		load func() (string, error)
		want string
	}{
		{"style", func() (string, error) { return loader.LoadStyle(EnhanceStyle) }, files["styles/enhance.css"]},
		{"script", func() (string, error) { return loader.LoadScript(EnhanceScript) }, files["scripts/enhance.js"]},
		{"template", func() (string, error) { return loader.LoadTemplate(CardTemplate) }, files["templates/card.html"]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.load()
			if err != nil {
				t.Fatalf("load error = %v", err)
			}
			if got != tt.want {
				t.Errorf("load = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssetLoader_NotFound(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader error = %v", err)
	}

	tests := []struct {
		name string
		load func() (string, error)
		want error
	}{
		{"style", func() (string, error) { return loader.LoadStyle("nonexistent") }, ErrStyleNotFound},
		{"script", func() (string, error) { return loader.LoadScript("nonexistent") }, ErrScriptNotFound},
		{"template", func() (string, error) { return loader.LoadTemplate("nonexistent") }, ErrTemplateNotFound},
		{"invalid name", func() (string, error) { return loader.LoadStyle("../etc/passwd") }, ErrStyleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.load()
			if !errors.Is(err, tt.want) {
				t.Errorf("load error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestErrorWrapping_PreservesMessage(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader error = %v", err)
	}

	_, err = loader.LoadStyle("custom-style")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "custom-style") {
		t.Errorf("error message %q should contain style name", err.Error())
	}
}

func TestWrappedAssetError_Unwrap(t *testing.T) {
	t.Parallel()

	original := errors.New("original error message")
	sentinel := errors.New("sentinel")

	wrapped := wrapError(sentinel, original)

	if wrapped.Error() != original.Error() {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), original.Error())
	}
	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is(wrapped, sentinel) should be true")
	}
	if errors.Is(wrapped, original) {
		t.Error("errors.Is(wrapped, original) should be false")
	}
}

func TestConvertAssetError_NilError(t *testing.T) {
	t.Parallel()

	if got := convertAssetError(nil); got != nil {
		t.Errorf("convertAssetError(nil) = %v, want nil", got)
	}
}
