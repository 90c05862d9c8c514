package sitekit

import "errors"

// Sentinel errors for library operations.
var (
	// Enhancer lifecycle errors.
	ErrNilDocument     = errors.New("document cannot be nil")
	ErrAlreadyAttached = errors.New("enhancer already attached")
	ErrClipboard       = errors.New("clipboard write failed")
	ErrEmptyHTML       = errors.New("HTML content cannot be empty")
	ErrInvalidPageURL  = errors.New("invalid page URL")

	// Asset errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrScriptNotFound   = errors.New("script not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Enhancer option validation errors.
	ErrInvalidScrollPolicy = errors.New("invalid scroll policy")
	ErrInvalidTabState     = errors.New("invalid tab state")
	ErrUnknownFeature      = errors.New("unknown feature")

	// Snapshot job validation errors.
	ErrInvalidViewport  = errors.New("invalid viewport")
	ErrEmptyOutput      = errors.New("output path cannot be empty")
	ErrEmptyInput       = errors.New("input path cannot be empty")
	ErrInputNotFound    = errors.New("input file not found")
	ErrInvalidWaitUntil = errors.New("invalid wait condition")
	ErrInvalidTimeout   = errors.New("invalid timeout")
	ErrUnknownBackend   = errors.New("unknown browser backend")

	// Snapshot run errors. Browser-side failures are fatal for the run and
	// never retried.
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrPageCreate    = errors.New("failed to create browser page")
	ErrViewport      = errors.New("failed to set viewport")
	ErrNavigation    = errors.New("failed to load page")
	ErrFontsTimeout  = errors.New("web fonts did not become ready")
	ErrScreenshot    = errors.New("screenshot capture failed")
	ErrWriteImage    = errors.New("failed to write image")
	ErrOutputDir     = errors.New("failed to create output directory")
	ErrCardRender    = errors.New("card rendering failed")
)
