// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-sitekit/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// GOOS is the target platform, replaceable in tests.
var GOOS = runtime.GOOS

// ForBrowserLaunch returns hints for browser launch and connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserLaunch() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 or pass --no-sandbox for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a local Chrome")
	}

	hints = append(hints, "run 'sitekit doctor' to check the browser")

	return formatHints(hints)
}

// ForTimeout returns a hint for pages that never settle.
func ForTimeout() string {
	return format("pages with slow fonts or long polling need a larger --timeout or --wait load")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-sitekit/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-sitekit") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInputNotFound returns hints when the snapshot source page is missing.
func ForInputNotFound(defaultInput string) string {
	if defaultInput == "" {
		return format("pass the page to capture with --input")
	}
	return format("pass the page to capture with --input, or create " + defaultInput)
}

// ForBackend returns hints for unknown automation backends.
func ForBackend(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForFeature returns hints for unknown enhancer behavior names.
func ForFeature(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("behaviors: " + strings.Join(available, ", "))
}

// ForClipboard returns hints for clipboard write failures.
func ForClipboard() string {
	if GOOS == "linux" {
		return format("install xclip, xsel or wl-clipboard")
	}
	return ""
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
