// Package dateutil resolves the date line of preview cards.
package dateutil

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrInvalidDate indicates a card date that names an unknown style.
var ErrInvalidDate = errors.New("invalid card date")

// Today is the front matter value replaced by the render date.
const Today = "auto"

// DefaultStyle formats Today when no style is given.
const DefaultStyle = "iso"

// Styles maps style names to time layouts.
var Styles = map[string]string{
	"iso":   "2006-01-02",
	"short": "Jan 2, 2006",
	"long":  "January 2, 2006",
	"month": "January 2006",
}

// StyleNames returns the style names in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(Styles))
	for name := range Styles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve returns the text a card shows for a front matter date.
// "auto" becomes now in the default style and "auto:STYLE" now in a named
// style (case-insensitive). Any other value is shown as written.
func Resolve(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	head, style, hasStyle := strings.Cut(value, ":")
	if !strings.EqualFold(head, Today) {
		return value, nil
	}
	if !hasStyle {
		style = DefaultStyle
	}

	layout, ok := Styles[strings.ToLower(strings.TrimSpace(style))]
	if !ok {
		return "", fmt.Errorf("%w: style %q (available: %s)", ErrInvalidDate, style, strings.Join(StyleNames(), ", "))
	}
	return now.Format(layout), nil
}
