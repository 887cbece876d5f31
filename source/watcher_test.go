package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, root string) *Watcher {
	t.Helper()

	loader := NewLoader(root, []string{"**/*.adoc"}, nil)
	w, err := NewWatcher(loader, 10*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.watcher.Close() })
	return w
}

func drainEvents(w *Watcher) []WatchEvent {
	var events []WatchEvent
	for {
		select {
		case ev := <-w.events:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestWatcher_FlushPendingCreate(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "adr-001.adoc")
	require.NoError(t, os.WriteFile(path, []byte("= ADR 001\n"), 0o644))

	w := newTestWatcher(t, root)
	w.handleFSEvent(fsnotify.Event{Name: path, Op: fsnotify.Create})
	w.flushPending(context.Background())

	events := drainEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, "adr-001.adoc", events[0].DocumentID)
	assert.Equal(t, OpCreate, events[0].Operation)
	assert.Equal(t, "= ADR 001\n", events[0].Text)
}

func TestWatcher_FlushPendingModify(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "guide.adoc")
	require.NoError(t, os.WriteFile(path, []byte("= Guide\n\nUpdated.\n"), 0o644))

	w := newTestWatcher(t, root)
	w.handleFSEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.flushPending(context.Background())

	events := drainEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, OpModify, events[0].Operation)
	assert.Equal(t, "= Guide\n\nUpdated.\n", events[0].Text)
}

func TestWatcher_FlushPendingRemove(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "docs", "old.adoc")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	w := newTestWatcher(t, root)
	w.handleFSEvent(fsnotify.Event{Name: path, Op: fsnotify.Remove})
	w.flushPending(context.Background())

	events := drainEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, "docs/old.adoc", events[0].DocumentID)
	assert.Equal(t, OpDelete, events[0].Operation)
	assert.Empty(t, events[0].Text)
}

// A file deleted between the fsnotify event and the flush is reported
// as a delete, not an error.
func TestWatcher_FlushPendingVanishedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "gone.adoc")

	w := newTestWatcher(t, root)
	w.handleFSEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.flushPending(context.Background())

	events := drainEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, OpDelete, events[0].Operation)
}

func TestWatcher_DebounceCoalescesEvents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "busy.adoc")
	require.NoError(t, os.WriteFile(path, []byte("= Busy\n"), 0o644))

	w := newTestWatcher(t, root)
	w.handleFSEvent(fsnotify.Event{Name: path, Op: fsnotify.Create})
	w.handleFSEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.handleFSEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.flushPending(context.Background())

	// Three raw events, one document, one flushed event.
	events := drainEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, "busy.adoc", events[0].DocumentID)
}

// Shutdown must not race a flush into a closed channel: only the event
// loop closes the events channel, after it has stopped flushing.
func TestWatcher_StopClosesEventsFromLoopSide(t *testing.T) {
	root := t.TempDir()

	loader := NewLoader(root, []string{"**/*.adoc"}, nil)
	w, err := NewWatcher(loader, 5*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))

	// Queue a pending change so a flush is in flight around shutdown.
	path := filepath.Join(root, "doc.adoc")
	require.NoError(t, os.WriteFile(path, []byte("= Doc\n"), 0o644))

	cancel()
	require.NoError(t, w.Stop())

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-w.Events():
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond, "events channel should close once the loop exits")
}

func TestWatcher_IgnoresNonMatchingFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("scratch"), 0o644))

	w := newTestWatcher(t, root)
	w.handleFSEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.flushPending(context.Background())

	assert.Empty(t, drainEvents(w))
}
