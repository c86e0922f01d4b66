package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/snapbasket/snapbasket/internal/logger"
)

// settleDelay gives the writer time to finish the file before we read it.
// Drops are usually small images copied in one burst, so a short wait is
// enough.
const settleDelay = 300 * time.Millisecond

// DropWatcher watches a directory and emits a snapshot for every image file
// dropped into it. It is the hands-free counterpart to the upload command.
type DropWatcher struct {
	dir     string
	log     *logger.Logger
	watcher *fsnotify.Watcher
	snaps   chan *Snapshot

	once sync.Once
	done chan struct{}
}

// NewDropWatcher creates the directory if needed and starts watching it.
func NewDropWatcher(dir string, log *logger.Logger) (*DropWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("capture: create drop dir %s: %w", dir, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("capture: start watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("capture: watch %s: %w", dir, err)
	}

	dw := &DropWatcher{
		dir:     dir,
		log:     log,
		watcher: w,
		snaps:   make(chan *Snapshot, 4),
		done:    make(chan struct{}),
	}
	go dw.run()
	log.Info("watching %s for dropped images", dir)
	return dw, nil
}

// Snapshots delivers one snapshot per dropped image. The channel closes
// when the watcher stops.
func (dw *DropWatcher) Snapshots() <-chan *Snapshot { return dw.snaps }

// Close stops the watcher. Safe to call more than once.
func (dw *DropWatcher) Close() {
	dw.once.Do(func() {
		close(dw.done)
		dw.watcher.Close()
	})
}

func (dw *DropWatcher) run() {
	defer close(dw.snaps)
	seen := make(map[string]time.Time)

	for {
		select {
		case <-dw.done:
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isImage(event.Name) {
				continue
			}
			// Create+Write pairs fire for the same drop; collapse them.
			if last, dup := seen[event.Name]; dup && time.Since(last) < time.Second {
				continue
			}
			seen[event.Name] = time.Now()
			dw.handle(event.Name)
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.log.Warn("drop watcher: %v", err)
		}
	}
}

func (dw *DropWatcher) handle(path string) {
	time.Sleep(settleDelay)
	snap, err := FromFile(path)
	if err != nil {
		dw.log.Warn("drop watcher: skipping %s: %v", filepath.Base(path), err)
		return
	}
	select {
	case dw.snaps <- snap:
	case <-dw.done:
	}
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
