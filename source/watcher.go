package source

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOperation indicates the type of document change.
type WatchOperation string

const (
	OpCreate WatchOperation = "create"
	OpModify WatchOperation = "modify"
	OpDelete WatchOperation = "delete"
)

// WatchEvent is one debounced document change. The host applies it to
// the graph: AddDocument for create/modify (whole-document replace),
// RemoveDocument for delete.
type WatchEvent struct {
	// DocumentID is the slash-separated path relative to the watch root.
	DocumentID string

	// Operation is the type of change.
	Operation WatchOperation

	// Text is the new document text (empty for delete).
	Text string
}

// Watcher watches a documentation root for file changes and emits
// debounced WatchEvents for documents matching the loader's include
// patterns.
type Watcher struct {
	root     string
	loader   *Loader
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → most recent operation

	events chan WatchEvent
}

// NewWatcher creates a watcher over the loader's root.
func NewWatcher(loader *Loader, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}

	return &Watcher{
		root:     loader.root,
		loader:   loader,
		watcher:  fsw,
		logger:   logger,
		debounce: debounce,
		pending:  make(map[string]fsnotify.Op),
		events:   make(chan WatchEvent, 100),
	}, nil
}

// Events returns the channel of watch events.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching the root for changes.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Workspace watcher started",
		slog.String("root", w.root),
		slog.Duration("debounce", w.debounce))
	return nil
}

// Stop stops the watcher. The events channel is closed by the event loop
// once it drains, never here, so a flush in flight cannot send on a
// closed channel.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to all non-hidden directories.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && name != filepath.Base(root) && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing. It owns the
// events channel and closes it on exit.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent accumulates a single fsnotify event for the next flush.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}

	if !w.loader.Matches(relPath) {
		// Watch newly created directories so documents added later are seen.
		if event.Has(fsnotify.Create) {
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Document change detected",
		slog.String("path", relPath),
		slog.String("op", event.Op.String()))
}

// handleNewDirectory adds a watch to a newly created directory.
func (w *Watcher) handleNewDirectory(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

// flushPending turns accumulated changes into WatchEvents.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			continue
		}
		docID := filepath.ToSlash(relPath)

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			w.sendEvent(WatchEvent{DocumentID: docID, Operation: OpDelete})
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				w.sendEvent(WatchEvent{DocumentID: docID, Operation: OpDelete})
			} else {
				w.logger.Warn("Failed to read changed document",
					slog.String("path", relPath),
					slog.String("error", err.Error()))
			}
			continue
		}

		operation := OpModify
		if op.Has(fsnotify.Create) {
			operation = OpCreate
		}
		w.sendEvent(WatchEvent{DocumentID: docID, Operation: operation, Text: string(data)})
	}
}

// sendEvent delivers an event without blocking the flush loop.
func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
	default:
		w.logger.Warn("Event channel full, dropping event",
			slog.String("document", event.DocumentID))
	}
}
