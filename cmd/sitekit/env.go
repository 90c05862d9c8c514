package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/alnah/go-sitekit"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the browser backend factory and the system clipboard.
type Environment struct {
	Now           func() time.Time
	Stdout        io.Writer
	Stderr        io.Writer
	Interactive   bool // Stderr is a terminal: spinners and progress bars
	Clipboard     sitekit.Clipboard
	NewAutomation func(backend string) (sitekit.Automation, error)
	Logger        *log.Logger
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:           time.Now,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Interactive:   isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		Clipboard:     sitekit.ClipboardFunc(writeSystemClipboard),
		NewAutomation: sitekit.NewAutomation,
	}
}

// writeSystemClipboard writes text through xclip/xsel/wl-copy, pbcopy or
// the Windows clipboard API.
func writeSystemClipboard(_ context.Context, text string) error {
	return clipboard.WriteAll(text)
}

// newLogger builds the stderr logger shared by the CLI and the library.
// quiet keeps errors only; verbose enables debug output with timestamps.
func newLogger(w io.Writer, quiet, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          "sitekit",
		ReportTimestamp: verbose,
		TimeFormat:      time.TimeOnly,
	})
	switch {
	case quiet:
		l.SetLevel(log.ErrorLevel)
	case verbose:
		l.SetLevel(log.DebugLevel)
	default:
		l.SetLevel(log.InfoLevel)
	}
	return l
}

// logger returns env.Logger, building a default one on first use.
func (env *Environment) logger(quiet, verbose bool) *log.Logger {
	if env.Logger == nil {
		env.Logger = newLogger(env.Stderr, quiet, verbose)
	}
	return env.Logger
}
