package loader

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchEvent is pushed onto the channel returned by Watch whenever a
// watched file changes. Exactly one of Result/Err is set.
type WatchEvent struct {
	Path   string
	Result *Result
	Err    error
}

// Watch watches dir (non-recursively, matching fsnotify's own model) for
// writes and creates of files matching glob (e.g. "*.xml") and re-parses
// the changed file into a fresh arena on every such event, pushing the
// outcome onto the returned channel. This is the streaming/"watch"
// façade spec.md explicitly keeps external to the core single-pass
// parser (§5: "cancellation is not supported mid-parse" applies to one
// parse, not to this loop, which simply starts a fresh one per event).
//
// The returned channel is closed, and the watch stopped, when ctx is
// canceled. Callers must drain the channel until it closes to avoid
// leaking the watcher goroutine.
func (l *Loader) Watch(ctx context.Context, dir, glob string) (<-chan WatchEvent, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	out := make(chan WatchEvent)

	go func() {
		defer w.Close()
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if matched, _ := filepath.Match(glob, filepath.Base(ev.Name)); glob != "" && !matched {
					continue
				}

				res, err := l.Load(ev.Name)
				select {
				case out <- WatchEvent{Path: ev.Name, Result: res, Err: err}:
				case <-ctx.Done():
					return
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.log.WithError(err).Warn("loader: watch error")
				select {
				case out <- WatchEvent{Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
