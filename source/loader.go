// Package source discovers workspace documents on disk and feeds them
// into the workspace graph: an initial scan via Loader and live updates
// via Watcher. The graph itself never performs I/O; this package is the
// host-side document lifecycle.
package source

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/docbridge/workspace"
)

// Loader scans a documentation root and loads matching files into a
// workspace graph. Document ids are slash-separated paths relative to
// the root.
type Loader struct {
	root    string
	include []string
	logger  *slog.Logger
}

// NewLoader creates a loader for root. Include patterns are doublestar
// globs relative to the root (e.g. "**/*.adoc").
func NewLoader(root string, include []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{root: root, include: include, logger: logger}
}

// Matches reports whether a root-relative path matches any include pattern.
func (l *Loader) Matches(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range l.include {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// Load walks the root and calls graph.AddDocument for every matching
// file. Unreadable files are logged and skipped. Returns the number of
// documents loaded.
func (l *Loader) Load(g *workspace.Graph) (int, error) {
	loaded := 0

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip hidden directories
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		if !l.Matches(relPath) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("Skipping unreadable document",
				slog.String("path", relPath),
				slog.String("error", err.Error()))
			return nil
		}

		g.AddDocument(filepath.ToSlash(relPath), string(data))
		loaded++
		return nil
	})
	if err != nil {
		return loaded, fmt.Errorf("scan workspace %s: %w", l.root, err)
	}

	l.logger.Debug("Workspace scan complete",
		slog.String("root", l.root),
		slog.Int("documents", loaded))
	return loaded, nil
}
