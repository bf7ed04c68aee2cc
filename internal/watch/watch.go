// Package watch re-runs a scan whenever documents under the tree change.
// Events are debounced so editor save bursts trigger a single rescan.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
	"git.home.luguber.info/inful/nbrelink/internal/logfields"
)

// DefaultDebounce coalesces rapid file changes into one rescan.
const DefaultDebounce = 2 * time.Second

// Handler runs after the debounce window closes.
type Handler func(ctx context.Context)

// Watcher monitors a document tree and triggers a handler on changes.
type Watcher struct {
	root     string
	ext      string
	debounce time.Duration
	handler  Handler
	watcher  *fsnotify.Watcher
}

// New creates a watcher over root for files with the given extension.
func New(root, ext string, debounce time.Duration, handler Handler) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		fsWatcher.Close()
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch root").
			WithContext("root", root).
			Build()
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		root:     absRoot,
		ext:      ext,
		debounce: debounce,
		handler:  handler,
		watcher:  fsWatcher,
	}, nil
}

// Run watches until the context is canceled. It blocks.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	slog.Info("Watching document tree", logfields.Root(w.root), logfields.Extension(w.ext))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Document change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))

		case <-timer.C:
			pending = false
			w.handler(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, w.ext) {
		return false
	}
	if strings.Contains(event.Name, ".ipynb_checkpoints") {
		return false
	}
	const ops = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	return event.Op&ops != 0
}

// addRecursive watches dir and every non-hidden directory below it.
func (w *Watcher) addRecursive(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == ".ipynb_checkpoints") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch tree").
			WithContext("root", dir).
			Build()
	}
	return nil
}
