package sitekit

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/alnah/go-sitekit/internal/dateutil"
	"github.com/alnah/go-sitekit/internal/fileutil"
	"github.com/alnah/go-sitekit/internal/pipeline"
	"github.com/alnah/go-sitekit/internal/yamlutil"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CardRenderer         = (*pipeline.CardTemplate)(nil)
	_ CardRenderer                  = (*MarkdownCardRenderer)(nil)
)

// CardRenderer turns a Markdown source into a standalone HTML page sized
// for a social preview. sourceDir resolves relative image and link paths.
type CardRenderer interface {
	RenderCard(ctx context.Context, markdown, sourceDir string) (string, error)
}

// cardFrontMatter is the YAML block a card source may start with.
// Unknown keys are ignored so the same file can feed other tools.
type cardFrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Site        string `yaml:"site"`
	URL         string `yaml:"url"`
	Date        string `yaml:"date"` // "auto" or "auto:STYLE" resolve to the render date
	Lang        string `yaml:"lang"`
}

// MarkdownCardRenderer renders cards with goldmark and the card template.
type MarkdownCardRenderer struct {
	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
	template     pipeline.CardRenderer
	css          string
	site         string
	now          func() time.Time
}

// cardConfig holds options applied by NewMarkdownCardRenderer.
type cardConfig struct {
	loader AssetLoader
	site   string
	now    func() time.Time
}

// CardOption configures a MarkdownCardRenderer.
type CardOption func(*cardConfig)

// WithCardAssetLoader sets the loader for the card template and style.
func WithCardAssetLoader(l AssetLoader) CardOption {
	return func(c *cardConfig) {
		if l != nil {
			c.loader = l
		}
	}
}

// WithSiteName sets the site label used when front matter has none.
func WithSiteName(name string) CardOption {
	return func(c *cardConfig) {
		c.site = name
	}
}

// WithCardTime fixes the clock used to resolve "auto" dates.
func WithCardTime(now func() time.Time) CardOption {
	return func(c *cardConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMarkdownCardRenderer loads the card template and style.
// Returns error if either asset is missing or the template does not parse.
func NewMarkdownCardRenderer(opts ...CardOption) (*MarkdownCardRenderer, error) {
	c := cardConfig{loader: defaultAssetLoader(), now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}

	tmplContent, err := c.loader.LoadTemplate(CardTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading card template: %w", err)
	}
	css, err := c.loader.LoadStyle(CardStyle)
	if err != nil {
		return nil, fmt.Errorf("loading card style: %w", err)
	}
	tmpl, err := pipeline.NewCardTemplate(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCardRender, err)
	}

	return &MarkdownCardRenderer{
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		converter:    pipeline.NewGoldmarkConverter(),
		template:     tmpl,
		css:          css,
		site:         c.site,
		now:          c.now,
	}, nil
}

// RenderCard renders markdown as a card page. The title comes from front
// matter, else from a leading "# " heading, which is then dropped from the
// body.
func (r *MarkdownCardRenderer) RenderCard(ctx context.Context, markdown, sourceDir string) (string, error) {
	raw, body, hasFrontMatter := pipeline.SplitFrontMatter(markdown)

	var fm cardFrontMatter
	if hasFrontMatter && strings.TrimSpace(raw) != "" {
		if err := yamlutil.Unmarshal([]byte(raw), &fm); err != nil {
			return "", fmt.Errorf("%w: front matter: %v", ErrCardRender, err)
		}
	}

	if fm.Title == "" {
		fm.Title, body = extractTitle(body)
	}
	if fm.Site == "" {
		fm.Site = r.site
	}

	date, err := dateutil.Resolve(fm.Date, r.now())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCardRender, err)
	}

	body = r.preprocessor.PreprocessMarkdown(ctx, body)
	fragment, err := r.converter.ToHTML(ctx, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCardRender, err)
	}
	fragment, err = pipeline.RewriteRelativePaths(fragment, sourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting paths: %v", ErrCardRender, err)
	}

	page, err := r.template.RenderCard(ctx, &pipeline.CardData{
		Lang:        fm.Lang,
		Site:        fm.Site,
		Title:       fm.Title,
		Description: fm.Description,
		URL:         fm.URL,
		Date:        date,
		Body:        template.HTML(strings.TrimSpace(fragment)), // #nosec G203 -- goldmark runs without WithUnsafe
		CSS:         template.CSS(r.css),                        // #nosec G203 -- CSS comes from the asset loader
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCardRender, err)
	}
	return page, nil
}

// extractTitle takes the first level-one ATX heading out of body, skipping
// leading blank lines.
func extractTitle(body string) (title, rest string) {
	trimmed := strings.TrimLeft(body, "\n")
	line, after, _ := strings.Cut(trimmed, "\n")
	if !strings.HasPrefix(line, "# ") {
		return "", body
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "# ")), after
}

// isMarkdown reports whether path names a Markdown card source.
func isMarkdown(path string) bool {
	return fileutil.HasExtension(path, ".md", ".markdown")
}
