package vault

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/storage"
)

// debounce batches bursts of filesystem events (editors write several
// times per save) into one rebuild.
const debounce = 500 * time.Millisecond

// RebuildFunc is called after each watcher-driven export completes.
type RebuildFunc func(*Report)

// Watch starts an fsnotify watcher on the vault root and re-runs the full
// export whenever notes or media change, until ctx is cancelled. New
// directories created at runtime are added to the watch list.
func (e *Exporter) Watch(ctx context.Context, onRebuild RebuildFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := e.store.Root()
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	e.logger.Info("watch: started", slog.String("root", root))

	var timer *time.Timer
	var rebuildCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			rebuildCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			e.logger.Info("watch: stopped")
			return nil

		case <-rebuildCh:
			report, runErr := e.Run(ctx)
			if runErr != nil {
				e.logger.Error("watch: rebuild failed", slog.String("error", runErr.Error()))
				continue
			}
			if onRebuild != nil {
				onRebuild(report)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						e.logger.Warn("watch: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule()
					continue
				}
			}
			if !relevantPath(ev.Name) {
				continue
			}
			e.logger.Debug("watch: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevantPath reports whether a change to the given file can affect the
// exported dataset.
func relevantPath(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".md" || storage.IsMediaExt(ext)
}

// addDirsRecursive registers dir and every non-hidden subdirectory.
func addDirsRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && p != dir {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
