package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-sitekit"
	"github.com/alnah/go-sitekit/internal/htmldom"
)

// ErrNoCopyControl is returned when the requested copy control does not exist.
var ErrNoCopyControl = errors.New("copy control not found")

// discard swallows the enhancer's own copy failure logs; clickCopy returns
// them instead.
var discard = log.New(io.Discard)

// runCopy enhances a page in memory, clicks one of its copy controls and
// leaves the code block's text on the system clipboard.
func runCopy(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCopyFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: copy takes one HTML file", ErrNoInput)
	}
	if err := validateHTMLExtension(positional[0]); err != nil {
		return err
	}

	l := env.logger(flags.common.quiet, flags.common.verbose)

	cfg, err := loadConfig(flags.common.config, l)
	if err != nil {
		return err
	}
	if flags.baseURL != "" {
		cfg.Site.BaseURL = flags.baseURL
	}

	content, err := os.ReadFile(positional[0]) // #nosec G304 -- user-provided page
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadPage, err)
	}

	text, err := clickCopy(ctx, string(content), cfg.Site.BaseURL, flags.index, env.Clipboard)
	if err != nil {
		return err
	}

	if flags.print {
		fmt.Fprint(env.Stdout, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(env.Stdout)
		}
	}
	l.Info("copied to clipboard", "block", flags.index, "bytes", len(text))
	return nil
}

// clickCopy attaches an Enhancer to the page, clicks copy control index and
// returns the text written to cb. Clipboard failures, which the enhancer
// only logs, are returned as ErrClipboard.
func clickCopy(ctx context.Context, page, pageURL string, index int, cb sitekit.Clipboard) (string, error) {
	doc, err := htmldom.ParseString(page, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadPage, err)
	}

	var (
		mu      sync.Mutex
		copied  string
		copyErr error
	)
	recorder := sitekit.ClipboardFunc(func(ctx context.Context, text string) error {
		err := cb.WriteText(ctx, text)
		mu.Lock()
		copied, copyErr = text, err
		mu.Unlock()
		return err
	})

	e, err := sitekit.NewEnhancer(doc,
		sitekit.WithFeatures(sitekit.FeatureCopyButtons),
		sitekit.WithClipboard(recorder),
		sitekit.WithLogger(discard),
	)
	if err != nil {
		return "", err
	}
	if err := e.Attach(ctx); err != nil {
		return "", err
	}
	defer e.Detach()

	buttons := doc.QueryAll(".code-actions > button.md-clipboard")
	if index < 0 || index >= len(buttons) {
		return "", fmt.Errorf("%w: index %d, page has %d", ErrNoCopyControl, index, len(buttons))
	}
	doc.Click(buttons[index])

	mu.Lock()
	defer mu.Unlock()
	if copyErr != nil {
		return "", fmt.Errorf("%w: %v", sitekit.ErrClipboard, copyErr)
	}
	return copied, nil
}
