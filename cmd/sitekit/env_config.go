package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-sitekit/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        // SITEKIT_CONFIG: config file name or path
	SiteName     string        // SITEKIT_SITE_NAME: card header
	BaseURL      string        // SITEKIT_BASE_URL: site URL
	OutputDir    string        // SITEKIT_OUTPUT_DIR: enhance output directory
	Workers      int           // SITEKIT_WORKERS: parallel workers
	WorkerScript string        // SITEKIT_SW: service worker script URL
	AssetPath    string        // SITEKIT_ASSET_PATH: custom asset directory
	Backend      string        // SITEKIT_BACKEND: rod or chromedp
	Timeout      time.Duration // SITEKIT_TIMEOUT: capture timeout
}

// knownEnvVars lists valid SITEKIT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SITEKIT_CONFIG":     true,
	"SITEKIT_SITE_NAME":  true,
	"SITEKIT_BASE_URL":   true,
	"SITEKIT_OUTPUT_DIR": true,
	"SITEKIT_WORKERS":    true,
	"SITEKIT_SW":         true,
	"SITEKIT_ASSET_PATH": true,
	"SITEKIT_BACKEND":    true,
	"SITEKIT_TIMEOUT":    true,
	"SITEKIT_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("SITEKIT_CONFIG"),
		SiteName:     os.Getenv("SITEKIT_SITE_NAME"),
		BaseURL:      os.Getenv("SITEKIT_BASE_URL"),
		OutputDir:    os.Getenv("SITEKIT_OUTPUT_DIR"),
		WorkerScript: os.Getenv("SITEKIT_SW"),
		AssetPath:    os.Getenv("SITEKIT_ASSET_PATH"),
		Backend:      os.Getenv("SITEKIT_BACKEND"),
	}

	if timeout := os.Getenv("SITEKIT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("SITEKIT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized SITEKIT_* variables.
func warnUnknownEnvVars(l *log.Logger) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "SITEKIT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				l.Warn("unknown environment variable (typo?)", "name", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command's merge step)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.SiteName != "" && cfg.Site.Name == "" {
		cfg.Site.Name = env.SiteName
	}
	if env.BaseURL != "" && cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = env.BaseURL
	}
	if env.OutputDir != "" && cfg.Enhance.OutputDir == "" {
		cfg.Enhance.OutputDir = env.OutputDir
	}
	if env.Workers > 0 && cfg.Enhance.Workers == 0 {
		cfg.Enhance.Workers = env.Workers
	}
	if env.WorkerScript != "" && cfg.Enhance.WorkerScript == "" {
		cfg.Enhance.WorkerScript = env.WorkerScript
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Backend != "" && cfg.Snapshot.Backend == "" {
		cfg.Snapshot.Backend = env.Backend
	}
	if env.Timeout > 0 && cfg.Snapshot.Timeout == "" {
		cfg.Snapshot.Timeout = env.Timeout.String()
	}
}

// loadConfig resolves the config file (flag, then SITEKIT_CONFIG), loads
// it and layers environment values on top. Without a file it starts from
// DefaultConfig. The result is validated again after layering.
func loadConfig(flagConfig string, l *log.Logger) (*config.Config, error) {
	env := loadEnvConfig()
	warnUnknownEnvVars(l)

	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		l.Debug("loaded config", "name", name)
	}

	applyEnvConfig(env, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
