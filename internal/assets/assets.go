package assets

// Names of the built-in assets.
const (
	EnhanceStyleName  = "enhance"
	EnhanceScriptName = "enhance"
	CardStyleName     = "card"
	CardTemplateName  = "card"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadScript loads a JavaScript file by name using the default embedded loader.
// Returns ErrScriptNotFound if the script does not exist.
func LoadScript(name string) (string, error) {
	return defaultLoader.LoadScript(name)
}

// LoadTemplate loads an HTML template by name using the default embedded loader.
// Returns ErrTemplateNotFound if the template does not exist.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}
