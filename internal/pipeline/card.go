package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// ErrCardRender indicates the card template failed to execute.
var ErrCardRender = errors.New("card template rendering failed")

// CardData holds the fields of a social preview card.
type CardData struct {
	Lang        string
	Site        string
	Title       string
	Description string
	URL         string
	Date        string
	Body        template.HTML // sanitized Markdown output
	CSS         template.CSS
}

// CardRenderer renders CardData into a standalone HTML page.
type CardRenderer interface {
	RenderCard(ctx context.Context, data *CardData) (string, error)
}

// CardTemplate renders cards with an html/template.
type CardTemplate struct {
	tmpl *template.Template
}

// NewCardTemplate creates a CardTemplate from template content.
// Returns error if the template cannot be parsed.
func NewCardTemplate(tmplContent string) (*CardTemplate, error) {
	tmpl, err := template.New("card").Option("missingkey=zero").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing card template: %w", err)
	}

	return &CardTemplate{tmpl: tmpl}, nil
}

// RenderCard executes the template. Lang defaults to "en".
func (c *CardTemplate) RenderCard(ctx context.Context, data *CardData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("%w: nil card data", ErrCardRender)
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	d := *data
	if d.Lang == "" {
		d.Lang = "en"
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, &d); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCardRender, err)
	}
	return buf.String(), nil
}

// Compile-time interface check.
var _ CardRenderer = (*CardTemplate)(nil)
