package sitekit

import (
	"errors"

	"github.com/alnah/go-sitekit/internal/assets"
)

// Names of the built-in assets.
const (
	// EnhanceStyle is the stylesheet injected into enhanced pages.
	EnhanceStyle = assets.EnhanceStyleName

	// EnhanceScript is the runtime script injected into enhanced pages.
	EnhanceScript = assets.EnhanceScriptName

	// CardStyle is the stylesheet of Markdown preview cards.
	CardStyle = assets.CardStyleName

	// CardTemplate is the page template of Markdown preview cards.
	CardTemplate = assets.CardTemplateName
)

// AssetLoader defines the contract for loading styles, scripts and
// templates. Implementations may load from the filesystem, embedded
// assets, or any other backend.
//
// The library provides NewAssetLoader() for filesystem-based loading with
// fallback to embedded defaults.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadScript loads a script by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	LoadScript(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded assets.
// If basePath is set, custom assets take precedence with fallback to embedded.
//
// The basePath directory may contain:
//   - styles/{name}.css
//   - scripts/{name}.js
//   - templates/{name}.html
//
// Returns ErrInvalidAssetPath if basePath is set but not a valid, readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{loader: resolver}, nil
}

// assetLoaderAdapter maps internal asset errors to public sentinels.
type assetLoaderAdapter struct {
	loader assets.AssetLoader
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.loader.LoadStyle(name)
	return content, convertAssetError(err)
}

func (a *assetLoaderAdapter) LoadScript(name string) (string, error) {
	content, err := a.loader.LoadScript(name)
	return content, convertAssetError(err)
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.loader.LoadTemplate(name)
	return content, convertAssetError(err)
}

// defaultAssetLoader returns the embedded-only loader.
func defaultAssetLoader() AssetLoader {
	return &assetLoaderAdapter{loader: assets.NewEmbeddedLoader()}
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return wrapError(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrScriptNotFound):
		return wrapError(ErrScriptNotFound, err)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return wrapError(ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath),
		errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrStyleNotFound, err) // Invalid name means not found
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
