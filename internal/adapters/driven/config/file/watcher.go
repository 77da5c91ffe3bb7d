package file

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/docpatch-labs/docpatch-cli/internal/logger"
)

// Watcher reloads a ConfigStore when its file changes on disk, so a
// long-running MCP server picks up edits to config.toml without a
// restart.
type Watcher struct {
	store   *ConfigStore
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching the store's config file. Call Run to
// process events and Close to stop.
func NewWatcher(store *ConfigStore) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors that write via
	// rename would otherwise drop the watch.
	if err := fsw.Add(filepath.Dir(store.Path())); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{store: store, watcher: fsw}, nil
}

// Run blocks, reloading the store on every relevant change, until the
// context is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	target := filepath.Clean(w.store.Path())
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := w.store.Load(); err != nil {
				logger.Warn("Config reload failed: %v", err)
				continue
			}
			logger.Debug("Config reloaded from %s", target)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Config watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
