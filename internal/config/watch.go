package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"lumen/internal/log"
)

// Watch reloads the store whenever its backing file changes on disk, so
// settings edited while the application runs take effect on the next redraw.
// It returns a stop function. Watching an unbound store is a no-op.
func (s *Store) Watch() (func(), error) {
	if s.path == "" {
		return func() {}, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the directory: editors replace the file, which would drop a
	// watch set on the file itself
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name == s.path && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					s.reload()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnf("config: watcher error: %v", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		w.Close()
	}, nil
}
