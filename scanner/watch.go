package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
)

// WatchBatch is how long changes are collected before they are scanned.
var WatchBatch = 2 * time.Second //nolint:gochecknoglobals

// ExecuteWatch scans changed files under paths until ctx is done. Every batch
// of changes is passed to fn the same way Scan would.
func (s *Scanner) ExecuteWatch(ctx context.Context, paths []string, fn func(Track) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watchDirs(watcher, p); err != nil {
			return fmt.Errorf("watch %q: %w", p, err)
		}
	}

	ticker := time.NewTicker(WatchBatch)
	defer ticker.Stop()

	batch := map[string]struct{}{}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if len(batch) == 0 {
				continue
			}
			changed := make([]string, 0, len(batch))
			for p := range batch {
				changed = append(changed, p)
			}
			slices.Sort(changed)
			clear(batch)

			st, err := s.Scan(ctx, changed, fn)
			if errors.Is(err, ErrAlreadyScanning) {
				log.Printf("skipping watch batch of %d: %v", len(changed), err)
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				return err
			}
			for _, err := range st.Errors {
				log.Printf("error in watch batch: %v", err)
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if isHidden(filepath.Base(event.Name)) || s.excluded(event.Name) {
				continue
			}
			stat, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if stat.IsDir() {
				if err := watchDirs(watcher, event.Name); err != nil {
					log.Printf("error watching new dir %q: %v", event.Name, err)
				}
				batch[event.Name] = struct{}{}
				continue
			}
			if s.reader.CanRead(event.Name) {
				batch[event.Name] = struct{}{}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("error from watcher: %v", err)
		}
	}
}

func watchDirs(watcher *fsnotify.Watcher, root string) error {
	return godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if path != root && isHidden(de.Name()) {
				return godirwalk.SkipThis
			}
			return watcher.Add(path)
		},
		Unsorted:            true,
		FollowSymbolicLinks: true,
	})
}
