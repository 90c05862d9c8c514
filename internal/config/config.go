package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-sitekit/internal/fileutil"
	"github.com/alnah/go-sitekit/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxSiteNameLength = 100  // Card header label
	MaxURLLength      = 2048 // Browser limit
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxWorkers        = 64   // Enhance worker pool upper bound
	MaxScale          = 4.0  // Device pixel ratio upper bound
	MaxDimension      = 8192 // Viewport side in CSS pixels
)

// appDir is the directory searched under the user config dir.
const appDir = "go-sitekit"

// Config holds all configuration for the sitekit CLI.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Enhance  EnhanceConfig  `yaml:"enhance"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Browser  BrowserConfig  `yaml:"browser"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// SiteConfig describes the site pages belong to.
type SiteConfig struct {
	Name    string `yaml:"name"`    // Card header when front matter has none
	BaseURL string `yaml:"baseURL"` // Page URL prefix; decides which links are external
}

// EnhanceConfig defines build-time page enhancement options.
type EnhanceConfig struct {
	OutputDir       string   `yaml:"outputDir"`       // Empty = rewrite in place
	Workers         int      `yaml:"workers"`         // 0 = auto
	Runtime         *bool    `yaml:"runtime"`         // nil = inject runtime
	ScrollPolicy    string   `yaml:"scrollPolicy"`    // "always" (default) or "found"
	History         *bool    `yaml:"history"`         // nil = push fragments
	ScrollThreshold float64  `yaml:"scrollThreshold"` // 0 = default 10px
	AckDuration     string   `yaml:"ackDuration"`     // e.g. "2s"; empty = default
	WorkerScript    string   `yaml:"workerScript"`    // Service worker URL; empty = none
	Disable         []string `yaml:"disable"`         // Behavior names to turn off
}

// SnapshotConfig defines social preview capture options.
type SnapshotConfig struct {
	Input   string  `yaml:"input"`   // Empty = built-in default
	Output  string  `yaml:"output"`  // Empty = built-in default
	Width   int     `yaml:"width"`   // CSS pixels; 0 = 1200
	Height  int     `yaml:"height"`  // CSS pixels; 0 = 630
	Scale   float64 `yaml:"scale"`   // Device pixel ratio; 0 = 2
	Wait    string  `yaml:"wait"`    // load, domcontentloaded, networkidle
	Timeout string  `yaml:"timeout"` // e.g. "30s"; empty = default
	Backend string  `yaml:"backend"` // rod (default) or chromedp
}

// BrowserConfig defines browser launch options.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`       // Empty = auto-detect
	NoSandbox bool   `yaml:"noSandbox"` // Required in most containers
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("site.name", c.Site.Name, MaxSiteNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.baseURL", c.Site.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || !fileutil.IsURL(c.Site.BaseURL) || u.Host == "" {
			return fmt.Errorf("%w: site.baseURL: %q is not an absolute http(s) URL", ErrInvalidValue, c.Site.BaseURL)
		}
	}

	if err := c.Enhance.validate(); err != nil {
		return err
	}
	if err := c.Snapshot.validate(); err != nil {
		return err
	}

	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength)
}

func (e *EnhanceConfig) validate() error {
	if err := validateFieldLength("enhance.outputDir", e.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if e.Workers < 0 || e.Workers > MaxWorkers {
		return fmt.Errorf("%w: enhance.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, e.Workers)
	}
	switch strings.ToLower(e.ScrollPolicy) {
	case "", "always", "found":
	default:
		return fmt.Errorf("%w: enhance.scrollPolicy: %q (must be always or found)", ErrInvalidValue, e.ScrollPolicy)
	}
	if e.ScrollThreshold < 0 {
		return fmt.Errorf("%w: enhance.scrollThreshold: must not be negative, got %g", ErrInvalidValue, e.ScrollThreshold)
	}
	if err := validateDuration("enhance.ackDuration", e.AckDuration); err != nil {
		return err
	}
	return validateFieldLength("enhance.workerScript", e.WorkerScript, MaxURLLength)
}

func (s *SnapshotConfig) validate() error {
	if err := validateFieldLength("snapshot.input", s.Input, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("snapshot.output", s.Output, MaxPathLength); err != nil {
		return err
	}
	if s.Width < 0 || s.Width > MaxDimension || s.Height < 0 || s.Height > MaxDimension {
		return fmt.Errorf("%w: snapshot size %dx%d (each side 0-%d)", ErrInvalidValue, s.Width, s.Height, MaxDimension)
	}
	if s.Scale < 0 || s.Scale > MaxScale {
		return fmt.Errorf("%w: snapshot.scale: must be between 0 and %g, got %g", ErrInvalidValue, MaxScale, s.Scale)
	}
	switch strings.ToLower(s.Wait) {
	case "", "load", "domcontentloaded", "networkidle":
	default:
		return fmt.Errorf("%w: snapshot.wait: %q (must be load, domcontentloaded or networkidle)", ErrInvalidValue, s.Wait)
	}
	switch strings.ToLower(s.Backend) {
	case "", "rod", "chromedp":
	default:
		return fmt.Errorf("%w: snapshot.backend: %q (must be rod or chromedp)", ErrInvalidValue, s.Backend)
	}
	return validateDuration("snapshot.timeout", s.Timeout)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDuration accepts an empty value or a positive Go duration.
func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf("%w: %s: %q is not a positive duration", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// ParseDuration returns the duration in value, or def when value is empty.
// value must have passed Validate.
func ParseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}

// DefaultConfig returns a configuration where every field selects the
// library default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.LoadFileStrict(configPath, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-sitekit/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
