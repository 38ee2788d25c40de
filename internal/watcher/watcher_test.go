package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/commonlog"
	"go.uber.org/goleak"
)

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := New(root, []string{".hsp", ".as"})
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	return w
}

// waitFor drains events until one satisfies ok.
func waitFor(t *testing.T, w *Watcher, ok func(Event) bool) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e := <-w.Events():
			if ok(e) {
				return e
			}
		case <-timeout:
			require.FailNow(t, "no matching event")
			return Event{}
		}
	}
}

func TestWatcherReportsUpdatesAndRemovals(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	existing := filepath.Join(root, "old.hsp")
	require.NoError(t, os.WriteFile(existing, nil, 0o644))

	w := startWatcher(t, root)
	defer w.Stop()

	created := filepath.Join(root, "a.hsp")
	require.NoError(t, os.WriteFile(created, []byte("mes 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644))

	e := waitFor(t, w, func(e Event) bool { return len(e.Updated) > 0 })
	assert.Equal(t, []string{created}, e.Updated)
	assert.Empty(t, e.Removed)

	require.NoError(t, os.Remove(existing))
	e = waitFor(t, w, func(e Event) bool { return len(e.Removed) > 0 })
	assert.Equal(t, []string{existing}, e.Removed)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	w := startWatcher(t, root)
	defer w.Stop()

	dir := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(dir, 0o755))
	time.Sleep(100 * time.Millisecond)

	p := filepath.Join(dir, "lib.as")
	require.NoError(t, os.WriteFile(p, nil, 0o644))

	waitFor(t, w, func(e Event) bool { return len(e.Updated) == 1 && e.Updated[0] == p })
}

func TestWatcherStartOnMissingRoot(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "gone"), []string{".hsp"})
	require.NoError(t, err)
	assert.Error(t, w.Start(context.Background()))
	w.Stop()
}

func TestFlushMarksRescan(t *testing.T) {
	w := &Watcher{pending: map[string]bool{"b.hsp": false, "a.hsp": false, "c.hsp": true}, rescan: true}

	e := w.flush()
	assert.Equal(t, []string{"a.hsp", "b.hsp"}, e.Updated)
	assert.Equal(t, []string{"c.hsp"}, e.Removed)
	assert.True(t, e.Rescan)
	assert.True(t, w.flush().IsEmpty())
}

func TestHandleFiltersExtensions(t *testing.T) {
	w := &Watcher{exts: []string{".hsp"}, pending: map[string]bool{}, logger: commonlog.GetLogger("test")}

	assert.False(t, w.handle(fsnotify.Event{Name: "/x/readme.md", Op: fsnotify.Write}))
	assert.False(t, w.handle(fsnotify.Event{Name: "/x/a.hsp", Op: fsnotify.Chmod}))
	assert.True(t, w.handle(fsnotify.Event{Name: "/x/a.hsp", Op: fsnotify.Write}))
	assert.True(t, w.handle(fsnotify.Event{Name: "/x/a.hsp", Op: fsnotify.Rename}))
	assert.Equal(t, map[string]bool{"/x/a.hsp": true}, w.pending)
}
