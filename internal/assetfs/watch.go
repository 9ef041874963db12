package assetfs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tagmill/tagmill/internal/logging"
	"github.com/tagmill/tagmill/internal/metrics"
)

// Watcher invalidates cached glob resolutions when the file set under
// the asset roots changes. Creates, removes and renames change what the
// patterns expand to; plain content writes do not and are ignored.
type Watcher struct {
	fsw   *fsnotify.Watcher
	purge func()
	log   *logging.Logger
}

// NewWatcher watches every directory under the asset roots and calls
// purge on changes. Roots built with NewFS have no directories to watch
// and yield a watcher that never fires.
func NewWatcher(assets *Assets, purge func(), log *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, purge: purge, log: log}
	for _, root := range assets.Roots() {
		if err := w.watchTree(root.Path); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// Run blocks until ctx is done. Directories created while running are
// added to the watch before purging, so later changes under them fire
// too.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watchTree(event.Name); err != nil {
						w.log.Warnf("Failed to watch new directory %v: %v", event.Name, err)
					}
				}
			}
			w.log.Debugf("Asset change %v (%v), purging glob cache.", event.Name, event.Op)
			w.purge()
			metrics.WatcherPurged()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warnf("Asset watcher error: %v", err)
		}
	}
}
