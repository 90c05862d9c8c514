package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-sitekit"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sitekit <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  snapshot     Generate the social preview image")
	fmt.Fprintln(w, "  enhance      Add interactive behaviors to HTML pages")
	fmt.Fprintln(w, "  copy         Copy a code block from a page to the clipboard")
	fmt.Fprintln(w, "  doctor       Check browser and system setup")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'sitekit help <command>' for details on a specific command.")
}

func printOutputControl(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printSnapshotUsage prints usage for the snapshot command.
func printSnapshotUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sitekit snapshot [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a local page in headless Chrome and save the viewport as PNG.")
	fmt.Fprintln(w, "Markdown input is rendered as a card first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintf(w, "  input    HTML or Markdown file (default %s)\n", sitekit.DefaultSnapshotInput)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintf(w, "  -o, --output <path>       PNG path (default %s)\n", sitekit.DefaultSnapshotOutput)
	fmt.Fprintln(w, "      --width <n>           Viewport width in CSS pixels (default 1200)")
	fmt.Fprintln(w, "      --height <n>          Viewport height in CSS pixels (default 630)")
	fmt.Fprintln(w, "      --scale <f>           Device scale factor (default 2)")
	fmt.Fprintln(w, "      --wait <event>        load, domcontentloaded, networkidle (default)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Capture timeout (default 30s)")
	fmt.Fprintln(w, "      --watch               Regenerate when the input changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Card:")
	fmt.Fprintln(w, "      --site-name <s>       Header when front matter has no site")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom card template and styles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintf(w, "      --backend <s>         %s\n", strings.Join(sitekit.Backends, ", "))
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium executable")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (containers)")
	fmt.Fprintln(w, "      --headful             Show the browser window")
	fmt.Fprintln(w)
	printOutputControl(w)
}

// printEnhanceUsage prints usage for the enhance command.
func printEnhanceUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sitekit enhance <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Decorate HTML pages with copy buttons, external link markers and card")
	fmt.Fprintln(w, "animations, and inject the runtime that binds the remaining behaviors.")
	fmt.Fprintln(w, "Running it twice leaves pages unchanged.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: rewrite in place)")
	fmt.Fprintln(w, "      --base-url <url>      Site URL; decides external links and active nav")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Behaviors:")
	fmt.Fprintln(w, "      --scroll-policy <s>   Missing anchor targets: always (default), found")
	fmt.Fprintln(w, "      --no-history          Do not push fragments after scrolling")
	fmt.Fprintln(w, "      --sw <url>            Service worker script to register")
	fmt.Fprintf(w, "      --disable <list>      Turn off: %s\n", strings.Join(sitekit.FeatureNames(), ", "))
	fmt.Fprintln(w, "      --no-runtime          Static decoration only")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom runtime script and styles")
	fmt.Fprintln(w)
	printOutputControl(w)
}

// printCopyUsage prints usage for the copy command.
func printCopyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sitekit copy <page.html> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press a page's copy button from the terminal: the code block's text is")
	fmt.Fprintln(w, "written to the system clipboard.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -n, --index <n>           Copy control to press, from 0 (default 0)")
	fmt.Fprintln(w, "      --base-url <url>      Site URL the page is served from")
	fmt.Fprintln(w, "      --print               Also print the copied text")
	fmt.Fprintln(w)
	printOutputControl(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "snapshot":
		printSnapshotUsage(env.Stdout)
	case "enhance":
		printEnhanceUsage(env.Stdout)
	case "copy":
		printCopyUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: sitekit doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, sandbox and system setup.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: sitekit version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: sitekit help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
