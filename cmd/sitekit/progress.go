package main

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while a batch runs. Implementations
// are safe for concurrent use.
type Reporter interface {
	Start(total int)
	Increment(name string)
	Finish()
}

// newReporter returns a progress bar on interactive terminals, a debug log
// line per page elsewhere, and nothing when quiet.
func newReporter(env *Environment, l *log.Logger, quiet bool) Reporter {
	switch {
	case quiet:
		return nopReporter{}
	case env.Interactive:
		return &barReporter{env: env}
	default:
		return &logReporter{log: l}
	}
}

// barReporter draws a progress bar on stderr.
type barReporter struct {
	env *Environment
	bar *progressbar.ProgressBar
}

func (r *barReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.env.Stderr),
		progressbar.OptionSetDescription("Enhancing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Increment(string) {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *barReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// logReporter writes one line per page, suitable for CI logs.
type logReporter struct {
	log *log.Logger
}

func (r *logReporter) Start(total int) {
	r.log.Debug("enhancing pages", "total", total)
}

func (r *logReporter) Increment(name string) {
	r.log.Debug("processed", "page", name)
}

func (r *logReporter) Finish() {}

// nopReporter reports nothing.
type nopReporter struct{}

func (nopReporter) Start(int)        {}
func (nopReporter) Increment(string) {}
func (nopReporter) Finish()          {}
