package pipeline

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-sitekit/internal/fileutil"
)

// cardAssetAttrs lists the attributes of a card body that may reference
// files next to the card's Markdown source.
var cardAssetAttrs = []struct {
	selector string
	attr     string
}{
	{"img[src]", "src"},
	{"a[href]", "href"},
	{"source[src]", "src"},
	{"video[poster]", "poster"},
}

// RewriteRelativePaths resolves relative references in a card body
// fragment against sourceDir and turns them into file:// URLs, so the card
// page can be loaded from a temporary directory. References with a scheme
// or host, rooted paths, fragments, and paths that leave sourceDir are kept
// as written. An empty sourceDir returns the fragment unchanged.
func RewriteRelativePaths(fragment, sourceDir string) (string, error) {
	if sourceDir == "" || strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}

	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", fmt.Errorf("resolving source directory: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parsing card body: %w", err)
	}

	for _, a := range cardAssetAttrs {
		doc.Find(a.selector).Each(func(_ int, s *goquery.Selection) {
			ref, _ := s.Attr(a.attr)
			if fileURL, ok := localAsset(root, ref); ok {
				s.SetAttr(a.attr, fileURL)
			}
		})
	}

	return doc.Find("body").Html()
}

// localAsset returns the file URL of ref when it is a relative path that
// stays under root.
func localAsset(root, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, `\`) {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}

	path := filepath.Join(root, filepath.FromSlash(u.Path))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	fileURL, err := fileutil.FileURL(path)
	if err != nil {
		return "", false
	}
	if u.Fragment != "" {
		fileURL += "#" + u.Fragment
	}
	return fileURL, true
}
