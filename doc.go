// Package sitekit adds interactive behaviors to documentation pages and
// captures social preview images of them with headless Chrome.
//
// # Page Enhancer
//
// An Enhancer binds behaviors to a Document: copy buttons on code blocks,
// smooth scrolling for in-page anchors, arrow-key navigation in tab
// groups, external link markers, card reveal animations, active
// navigation entries, the mobile menu toggle, and the ambient fonts-loaded
// and scrolled markers. Attach is idempotent over already decorated
// markup.
//
//	var doc sitekit.Document // any implementation of the dom interfaces
//	e, err := sitekit.NewEnhancer(doc,
//	    sitekit.WithClipboard(clipboard),
//	    sitekit.WithScrollPolicy(sitekit.PreventWhenFound),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := e.Attach(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Detach()
//
// HTMLEnhancer runs the same pass over static HTML at build time and
// injects the runtime script that binds the event-driven behaviors in
// the browser:
//
//	h, err := sitekit.NewHTMLEnhancer(sitekit.WithWorkerScript("/sw.js"))
//	out, err := h.Enhance(ctx, html, "https://docs.example.com/")
//
// # Snapshot Generator
//
// A Generator loads a local page in a fresh browser session, waits for
// the network to go idle and for web fonts to be ready, and writes the
// viewport as PNG. The default job renders a 1200x630 viewport at scale
// 2, producing a 2400x1260 image:
//
//	gen, err := sitekit.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := gen.Run(ctx, sitekit.DefaultSnapshotJob())
//
// Markdown input is rendered to a card page first. Two backends drive
// Chrome: go-rod (default) and chromedp. See NewAutomation.
//
// # Custom Assets
//
// Override the runtime script, its stylesheet, or the card template and
// styles with an AssetLoader:
//
//	loader, err := sitekit.NewAssetLoader("/path/to/assets")
//	h, err := sitekit.NewHTMLEnhancer(sitekit.WithAssetLoader(loader))
//
// Asset directory structure:
//
//	assets/
//	├── scripts/
//	│   └── enhance.js
//	├── styles/
//	│   ├── enhance.css
//	│   └── card.css
//	└── templates/
//	    └── card.html
//
// # Browser Requirements
//
// Snapshots require Chrome/Chromium. The go-rod backend downloads a
// managed Chromium on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package sitekit
