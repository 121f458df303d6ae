package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/desertthunder/chdm3u/internal/discset"
	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/shared"
	"github.com/fsnotify/fsnotify"
)

// RunHandler receives the outcome of each run started by [Organizer.Watch].
type RunHandler func(result *models.RunResult, err error)

// Watch runs the organizer on dir once, then again each time new unprefixed disc images
// settle for the debounce period. Runs happen one at a time on the calling goroutine.
//
// Watch blocks until ctx is cancelled or the watcher fails.
func (o *Organizer) Watch(ctx context.Context, dir string, debounce time.Duration, onRun RunHandler) error {
	if err := discset.CheckDirectory(dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logger := shared.WithLogger(o.logger, "dir", dir)
	logger.Info("watching for disc images", "debounce", debounce)

	run := func() {
		result, err := o.Run(ctx, dir, nil)
		if onRun != nil {
			onRun(result, err)
		}
	}

	run()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if o.triggers(ev) {
				logger.Debug("disc image event", "file", filepath.Base(ev.Name), "op", ev.Op.String())
				fire = time.After(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)

		case <-fire:
			fire = nil
			run()
		}
	}
}

// triggers reports whether ev introduces a disc image that has not been prefixed yet.
func (o *Organizer) triggers(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(ev.Name)
	if o.matcher.IsPrefixed(name) {
		return false
	}
	_, ok := o.matcher.Match(name)
	return ok
}
