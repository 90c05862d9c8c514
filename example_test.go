package sitekit_test

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/alnah/go-sitekit"
)

// Example decorates a static page at build time.
func Example() {
	h, err := sitekit.NewHTMLEnhancer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	page := `<html><head></head><body>
<pre><code>go test ./...</code></pre>
<a href="https://go.dev/">Go</a>
</body></html>`

	out, err := h.Enhance(context.Background(), page, "https://docs.example.com/")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(out, `class="md-clipboard"`))
	fmt.Println(strings.Contains(out, `target="_blank"`))

	// Enhancing twice changes nothing.
	again, _ := h.Enhance(context.Background(), out, "https://docs.example.com/")
	fmt.Println(again == out)
	// Output:
	// true
	// true
	// true
}

// Example_noRuntime skips the runtime script, leaving only static markup.
func Example_noRuntime() {
	h, err := sitekit.NewHTMLEnhancer(sitekit.WithRuntime(false))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	out, err := h.Enhance(context.Background(), "<html><body><p>hi</p></body></html>", "")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(out, "<script"))
	// Output: false
}

func ExampleIsExternal() {
	page, _ := url.Parse("https://docs.example.com/guide/")

	fmt.Println(sitekit.IsExternal(page, "/api/"))
	fmt.Println(sitekit.IsExternal(page, "https://DOCS.example.com/faq"))
	fmt.Println(sitekit.IsExternal(page, "https://github.com/alnah"))
	fmt.Println(sitekit.IsExternal(page, "mailto:team@example.com"))
	// Output:
	// false
	// false
	// true
	// false
}

func ExampleTabCycle() {
	c, err := sitekit.NewTabCycle(3, 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(c.Apply(sitekit.TabNext))
	fmt.Println(c.Apply(sitekit.TabPrev))
	fmt.Println(c.Apply(sitekit.TabLast))
	// Output:
	// 0
	// 2
	// 2
}

func ExampleParseFeatures() {
	f, err := sitekit.ParseFeatures([]string{"copy", "links"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(f.Has(sitekit.FeatureCopyButtons), f.Has(sitekit.FeatureTabKeys))

	_, err = sitekit.ParseFeatures([]string{"confetti"})
	fmt.Println(err != nil)
	// Output:
	// true false
	// true
}

// ExampleGenerator_Run captures a 1200x630 card at scale 2. It needs
// Chrome, so it has no Output comment and is compiled but not run.
func ExampleGenerator_Run() {
	gen, err := sitekit.NewGenerator()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	job := sitekit.DefaultSnapshotJob()
	job.Input = "docs/index.md"
	job.Output = "site/social.png"

	result, err := gen.Run(context.Background(), job)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%dx%d %s\n", result.Width, result.Height, result.Path)
}
