package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-sitekit/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("SITEKIT_CONFIG", "site")
		t.Setenv("SITEKIT_SITE_NAME", "Docs")
		t.Setenv("SITEKIT_BASE_URL", "https://docs.example.com/")
		t.Setenv("SITEKIT_OUTPUT_DIR", "public")
		t.Setenv("SITEKIT_WORKERS", "4")
		t.Setenv("SITEKIT_SW", "/update.js")
		t.Setenv("SITEKIT_ASSET_PATH", "theme")
		t.Setenv("SITEKIT_BACKEND", "chromedp")
		t.Setenv("SITEKIT_TIMEOUT", "1m")

		got := loadEnvConfig()
		want := envConfig{
			ConfigPath:   "site",
			SiteName:     "Docs",
			BaseURL:      "https://docs.example.com/",
			OutputDir:    "public",
			Workers:      4,
			WorkerScript: "/update.js",
			AssetPath:    "theme",
			Backend:      "chromedp",
			Timeout:      time.Minute,
		}
		if *got != want {
			t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
		}
	})

	t.Run("malformed numbers are ignored", func(t *testing.T) {
		t.Setenv("SITEKIT_WORKERS", "many")
		t.Setenv("SITEKIT_TIMEOUT", "-5s")

		got := loadEnvConfig()
		if got.Workers != 0 {
			t.Errorf("Workers = %d, want 0", got.Workers)
		}
		if got.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", got.Timeout)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("SITEKIT_BASEURL", "typo")
	t.Setenv("SITEKIT_BACKEND", "rod")

	var buf bytes.Buffer
	warnUnknownEnvVars(log.New(&buf))

	out := buf.String()
	if !strings.Contains(out, "SITEKIT_BASEURL") {
		t.Errorf("output = %q, want warning for SITEKIT_BASEURL", out)
	}
	if strings.Contains(out, "SITEKIT_BACKEND") {
		t.Errorf("output = %q, known variable should not warn", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env fills only unset values
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		SiteName:  "From Env",
		BaseURL:   "https://env.example.com/",
		Workers:   8,
		Backend:   "chromedp",
		Timeout:   45 * time.Second,
		AssetPath: "env-theme",
	}
	cfg := config.DefaultConfig()
	cfg.Site.Name = "From File"

	applyEnvConfig(env, cfg)

	if cfg.Site.Name != "From File" {
		t.Errorf("Site.Name = %q, config file value must win", cfg.Site.Name)
	}
	if cfg.Site.BaseURL != "https://env.example.com/" {
		t.Errorf("Site.BaseURL = %q", cfg.Site.BaseURL)
	}
	if cfg.Enhance.Workers != 8 {
		t.Errorf("Enhance.Workers = %d, want 8", cfg.Enhance.Workers)
	}
	if cfg.Snapshot.Backend != "chromedp" {
		t.Errorf("Snapshot.Backend = %q, want chromedp", cfg.Snapshot.Backend)
	}
	if cfg.Snapshot.Timeout != "45s" {
		t.Errorf("Snapshot.Timeout = %q, want 45s", cfg.Snapshot.Timeout)
	}
	if cfg.Assets.BasePath != "env-theme" {
		t.Errorf("Assets.BasePath = %q, want env-theme", cfg.Assets.BasePath)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File and env layering
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	discardLog := log.New(io.Discard)

	t.Run("defaults without file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := loadConfig("", discardLog)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Site.Name != "" || cfg.Snapshot.Input != "" {
			t.Errorf("loadConfig() = %+v, want defaults", cfg)
		}
	})

	t.Run("env names the file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		writeFile(t, dir, "site.yaml", "site:\n  name: Handbook\n")
		t.Setenv("SITEKIT_CONFIG", "site")
		t.Setenv("SITEKIT_SITE_NAME", "Ignored")
		t.Setenv("SITEKIT_BACKEND", "chromedp")

		cfg, err := loadConfig("", discardLog)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Site.Name != "Handbook" {
			t.Errorf("Site.Name = %q, want Handbook", cfg.Site.Name)
		}
		if cfg.Snapshot.Backend != "chromedp" {
			t.Errorf("Snapshot.Backend = %q, want chromedp", cfg.Snapshot.Backend)
		}
	})

	t.Run("invalid env value fails validation", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SITEKIT_BACKEND", "webkit")

		if _, err := loadConfig("", discardLog); err == nil {
			t.Fatal("loadConfig() error = nil, want invalid backend")
		}
	})
}
