package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-sitekit/internal/fileutil"
)

// Sentinel errors for page discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .html or .htm extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// PageToEnhance represents a single page to process.
type PageToEnhance struct {
	InputPath  string
	OutputPath string
	URL        string // served URL; empty without a base URL
}

// discoverPages finds all HTML pages under inputPath. Output paths mirror
// the input tree under outputDir, or equal the input when outputDir is
// empty. With a base URL each page gets the URL it is served from.
func discoverPages(inputPath, outputDir, baseURL string) ([]PageToEnhance, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateHTMLExtension(inputPath); err != nil {
			return nil, err
		}
		rel := filepath.Base(inputPath)
		return []PageToEnhance{{
			InputPath:  inputPath,
			OutputPath: resolvePageOutput(inputPath, outputDir, rel),
			URL:        pageURLFor(baseURL, rel),
		}}, nil
	}

	var pages []PageToEnhance
	err = filepath.WalkDir(inputPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", p, err)
		}
		if d.IsDir() {
			// Never descend into the output tree when it sits inside the input.
			if outputDir != "" && p != inputPath && sameDir(p, outputDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isHTML(p) {
			return nil
		}
		rel, err := filepath.Rel(inputPath, p)
		if err != nil {
			return err
		}
		pages = append(pages, PageToEnhance{
			InputPath:  p,
			OutputPath: resolvePageOutput(p, outputDir, rel),
			URL:        pageURLFor(baseURL, rel),
		})
		return nil
	})

	return pages, err
}

// resolvePageOutput returns where the enhanced page is written.
func resolvePageOutput(inputPath, outputDir, rel string) string {
	if outputDir == "" {
		return inputPath
	}
	return filepath.Join(outputDir, rel)
}

// pageURLFor joins a site-relative file path onto baseURL. index.html maps
// to its directory URL, matching how static hosts serve it.
func pageURLFor(baseURL, rel string) string {
	if baseURL == "" {
		return ""
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	p := filepath.ToSlash(rel)
	if path.Base(p) == "index.html" {
		p = strings.TrimSuffix(p, "index.html")
	}
	u.Path = path.Join("/", u.Path, p)
	if p == "" || strings.HasSuffix(p, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	}
	return u.String()
}

// isHTML reports whether p has an HTML extension.
func isHTML(p string) bool {
	return fileutil.HasExtension(p, ".html", ".htm")
}

// validateHTMLExtension checks that the file has an HTML extension.
func validateHTMLExtension(p string) error {
	if !isHTML(p) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(p))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxPoolSize)
	}
	return nil
}

// sameDir reports whether a and b name the same directory.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
