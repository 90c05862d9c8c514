package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events a single editor save produces.
const watchDebounce = 200 * time.Millisecond

// watchOps are the operations that count as a change to the watched file.
const watchOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// watchFile calls fn once, then again after each change to path, until ctx
// is done. The parent directory is watched so editors that replace the file
// on save are followed.
func watchFile(ctx context.Context, path string, l *log.Logger, fn func(context.Context)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	fn(ctx)
	l.Info("watching for changes", "path", path)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&watchOps == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.Warn("watch error", "err", err)
		case <-fire:
			fire = nil
			l.Debug("change detected", "path", path)
			fn(ctx)
		}
	}
}
