package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// browserFlags holds browser launch flags.
type browserFlags struct {
	backend   string
	bin       string
	noSandbox bool
	headful   bool
}

// snapshotFlags holds all flags for the snapshot command.
type snapshotFlags struct {
	common    commonFlags
	browser   browserFlags
	output    string
	width     int
	height    int
	scale     float64
	wait      string
	timeout   string
	siteName  string
	assetPath string
	watch     bool
}

// enhanceFlags holds all flags for the enhance command.
type enhanceFlags struct {
	common       commonFlags
	output       string
	baseURL      string
	workers      int
	noRuntime    bool
	scrollPolicy string
	noHistory    bool
	workerScript string
	disable      []string
	assetPath    string
}

// copyFlags holds all flags for the copy command.
type copyFlags struct {
	common  commonFlags
	index   int
	baseURL string
	print   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addBrowserFlags adds browser launch flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.backend, "backend", "", "browser automation: rod, chromedp")
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome/Chromium executable")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (containers)")
	fs.BoolVar(&f.headful, "headful", false, "show the browser window")
}

// registerSnapshotFlags declares snapshot flags on fs. Shared with completion.
func registerSnapshotFlags(fs *flag.FlagSet, f *snapshotFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "PNG output path")
	fs.IntVar(&f.width, "width", 0, "viewport width in CSS pixels (default 1200)")
	fs.IntVar(&f.height, "height", 0, "viewport height in CSS pixels (default 630)")
	fs.Float64Var(&f.scale, "scale", 0, "device scale factor (default 2)")
	fs.StringVar(&f.wait, "wait", "", "load event: load, domcontentloaded, networkidle")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "capture timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.siteName, "site-name", "", "card header for Markdown input")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.watch, "watch", false, "regenerate when the input changes")

	addCommonFlags(fs, &f.common)
	addBrowserFlags(fs, &f.browser)
}

// registerEnhanceFlags declares enhance flags on fs. Shared with completion.
func registerEnhanceFlags(fs *flag.FlagSet, f *enhanceFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: rewrite in place)")
	fs.StringVar(&f.baseURL, "base-url", "", "site URL the pages are served from")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.noRuntime, "no-runtime", false, "skip the browser runtime script and styles")
	fs.StringVar(&f.scrollPolicy, "scroll-policy", "", "missing anchor targets: always, found")
	fs.BoolVar(&f.noHistory, "no-history", false, "do not push fragments after scrolling")
	fs.StringVar(&f.workerScript, "sw", "", "service worker script URL to register")
	fs.StringSliceVar(&f.disable, "disable", nil, "behaviors to turn off (comma-separated)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")

	addCommonFlags(fs, &f.common)
}

// registerCopyFlags declares copy flags on fs. Shared with completion.
func registerCopyFlags(fs *flag.FlagSet, f *copyFlags) {
	fs.IntVarP(&f.index, "index", "n", 0, "copy control to click, from 0")
	fs.StringVar(&f.baseURL, "base-url", "", "site URL the page is served from")
	fs.BoolVar(&f.print, "print", false, "also print the copied text")

	addCommonFlags(fs, &f.common)
}

// parseSnapshotFlags parses snapshot command flags and returns positional args.
func parseSnapshotFlags(args []string) (*snapshotFlags, []string, error) {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	f := &snapshotFlags{}
	registerSnapshotFlags(fs, f)
	fs.Usage = func() { printSnapshotUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseEnhanceFlags parses enhance command flags and returns positional args.
func parseEnhanceFlags(args []string) (*enhanceFlags, []string, error) {
	fs := flag.NewFlagSet("enhance", flag.ContinueOnError)
	f := &enhanceFlags{}
	registerEnhanceFlags(fs, f)
	fs.Usage = func() { printEnhanceUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCopyFlags parses copy command flags and returns positional args.
func parseCopyFlags(args []string) (*copyFlags, []string, error) {
	fs := flag.NewFlagSet("copy", flag.ContinueOnError)
	f := &copyFlags{}
	registerCopyFlags(fs, f)
	fs.Usage = func() { printCopyUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
