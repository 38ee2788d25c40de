// Package watcher reports changes to source files under the workspace.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shinyvision/hsp3ls/internal/scan"
	"github.com/tliron/commonlog"
)

// Event is a batch of settled filesystem changes.
type Event struct {
	Updated []string
	Removed []string
	// Rescan asks for a full rescan because events were lost.
	Rescan bool
	// Disconnected is sent once when the underlying watcher goes away.
	Disconnected bool
}

func (e Event) IsEmpty() bool {
	return len(e.Updated) == 0 && len(e.Removed) == 0 && !e.Rescan && !e.Disconnected
}

// Watcher watches a directory tree for files with the given extensions.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	root     string
	exts     []string
	Debounce time.Duration
	events   chan Event
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	logger   commonlog.Logger

	// pending is owned by the run goroutine: path -> removed
	pending map[string]bool
	rescan  bool
}

func New(root string, exts []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:       w,
		root:     root,
		exts:     exts,
		Debounce: 200 * time.Millisecond,
		events:   make(chan Event, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   commonlog.GetLoggerf("hsp3ls.watcher"),
		pending:  make(map[string]bool),
	}, nil
}

// Events delivers batches. It is closed after the watcher stops.
func (w *Watcher) Events() <-chan Event { return w.events }

// Start adds the tree and starts the event loop. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addTree(w.root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.logger.Infof("watching %s", w.root)

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the OS watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		if err := w.fs.Close(); err != nil {
			w.logger.Errorf("closing watcher: %v", err)
		}
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fs.Close(); err != nil {
		w.logger.Errorf("closing watcher: %v", err)
	}
	w.logger.Infof("stopped watching %s", w.root)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			w.logger.Warningf("cannot watch %s: %v", p, err)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.events)

	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				w.logger.Warningf("event channel closed")
				w.send(ctx, Event{Disconnected: true})
				return
			}
			if w.handle(event) {
				timer.Reset(w.Debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				w.send(ctx, Event{Disconnected: true})
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warningf("event overflow, requesting rescan")
				w.rescan = true
				timer.Reset(w.Debounce)
				continue
			}
			w.logger.Errorf("watch error: %v", err)

		case <-timer.C:
			if !w.send(ctx, w.flush()) {
				return
			}
		}
	}
}

// handle records an event and reports whether anything is pending.
func (w *Watcher) handle(event fsnotify.Event) bool {
	switch {
	case event.Op.Has(fsnotify.Create):
		if isDir(event.Name) {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warningf("cannot watch %s: %v", event.Name, err)
			}
			files, err := scan.Scan(context.Background(), event.Name, w.exts, nil)
			if err != nil {
				return false
			}
			for _, f := range files {
				w.pending[f.Path] = false
			}
			return len(files) > 0
		}
		fallthrough
	case event.Op.Has(fsnotify.Write):
		if !scan.Matches(event.Name, w.exts) {
			return false
		}
		w.pending[event.Name] = false
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if !scan.Matches(event.Name, w.exts) {
			return false
		}
		w.pending[event.Name] = true
	default:
		return false
	}
	w.logger.Debugf("%s %s", event.Op, event.Name)
	return true
}

func (w *Watcher) flush() Event {
	var e Event
	for p, removed := range w.pending {
		if removed {
			e.Removed = append(e.Removed, p)
		} else {
			e.Updated = append(e.Updated, p)
		}
	}
	sort.Strings(e.Updated)
	sort.Strings(e.Removed)
	e.Rescan = w.rescan

	clear(w.pending)
	w.rescan = false
	return e
}

func (w *Watcher) send(ctx context.Context, e Event) bool {
	if e.IsEmpty() {
		return true
	}
	select {
	case w.events <- e:
		return true
	case <-ctx.Done():
	case <-w.stopCh:
	}
	return false
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
