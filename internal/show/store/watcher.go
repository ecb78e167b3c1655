package store

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever the snapshot file is replaced on disk by
// another process (a remote refresh writes it out-of-band). It blocks until
// ctx is canceled. Reloads regenerate unit IDs, so callers holding IDs
// across a reload must re-list.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: rename-based atomic writes
	// replace the inode and would silently detach a file watch.
	if err := watcher.Add(filepath.Dir(s.snapshotPath)); err != nil {
		return err
	}

	base := filepath.Base(s.snapshotPath)
	s.logger.Info("Watching snapshot for out-of-band changes", "path", s.snapshotPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if s.selfWroteRecently(time.Second) {
				continue
			}
			if err := s.Load(); err != nil {
				s.logger.Warn("Failed to reload snapshot", "err", err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Snapshot watcher error", "err", err.Error())
		}
	}
}
