package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/engine/fasta"
)

const watchDebounce = 200 * time.Millisecond

// watchPath returns the file to watch for store, or "" when the store is
// not file backed.
func watchPath(store engine.Store) string {
	if fs, ok := store.(*fasta.Store); ok {
		return fs.Path()
	}
	return ""
}

// watchFile calls reload after path changes, until ctx is done. Bursts of
// events are collapsed into one call. The parent directory is watched so
// that editors which replace the file on save are still seen.
func watchFile(ctx context.Context, path string, reload func(context.Context) error) error {
	logger := loggerFromContext(ctx)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	go func() {
		defer w.Close()
		debounce := time.NewTimer(watchDebounce)
		debounce.Stop()
		for {
			select {
			case <-ctx.Done():
				debounce.Stop()
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				debounce.Reset(watchDebounce)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("file watcher", "err", err)
			case <-debounce.C:
				logger.Info("dataset changed, reloading", "path", path)
				if err := reload(ctx); err != nil {
					logger.Error("reload failed", "err", err)
				}
			}
		}
	}()
	return nil
}
