package main

import (
	"errors"
	"os"

	"github.com/alnah/go-sitekit"
	"github.com/alnah/go-sitekit/internal/config"
)

// Exit codes for the sitekit CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, sitekit.ErrBrowserLaunch) ||
		errors.Is(err, sitekit.ErrPageCreate) ||
		errors.Is(err, sitekit.ErrViewport) ||
		errors.Is(err, sitekit.ErrNavigation) ||
		errors.Is(err, sitekit.ErrFontsTimeout) ||
		errors.Is(err, sitekit.ErrScreenshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, sitekit.ErrInputNotFound) ||
		errors.Is(err, sitekit.ErrOutputDir) ||
		errors.Is(err, sitekit.ErrWriteImage) ||
		errors.Is(err, sitekit.ErrClipboard) ||
		errors.Is(err, ErrReadPage) ||
		errors.Is(err, ErrWritePage) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, sitekit.ErrInvalidViewport) ||
		errors.Is(err, sitekit.ErrEmptyOutput) ||
		errors.Is(err, sitekit.ErrEmptyInput) ||
		errors.Is(err, sitekit.ErrInvalidWaitUntil) ||
		errors.Is(err, sitekit.ErrInvalidTimeout) ||
		errors.Is(err, sitekit.ErrUnknownBackend) ||
		errors.Is(err, sitekit.ErrInvalidScrollPolicy) ||
		errors.Is(err, sitekit.ErrUnknownFeature) ||
		errors.Is(err, sitekit.ErrInvalidPageURL) ||
		errors.Is(err, sitekit.ErrEmptyHTML) ||
		errors.Is(err, sitekit.ErrInvalidAssetPath) ||
		errors.Is(err, sitekit.ErrStyleNotFound) ||
		errors.Is(err, sitekit.ErrScriptNotFound) ||
		errors.Is(err, sitekit.ErrTemplateNotFound) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrNoCopyControl) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
