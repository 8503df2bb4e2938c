package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/glyphclick/internal/logging"
)

// fileWatcher reports changes to one file. It watches the file's directory
// so editors that save by renaming a temp file over the original are seen.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
}

func newFileWatcher(path string) (*fileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &fileWatcher{
		watcher: fsw,
		path:    filepath.Clean(path),
	}, nil
}

// run forwards change notifications to changed until ctx is done. Pending
// notifications are coalesced. It logs through the logger carried by ctx.
func (w *fileWatcher) run(ctx context.Context, changed chan<- struct{}) error {
	defer w.watcher.Close()
	log := logging.WithComponent(*logging.FromContext(ctx), "watcher")

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debug().Str("op", ev.Op.String()).Str("file", ev.Name).Msg("file changed")
			select {
			case changed <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}
