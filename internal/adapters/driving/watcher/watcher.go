package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// Vault is the part of the vault the watcher needs.
type Vault interface {
	Root() string
	Rel(path string) (string, error)
	Matches(path string) bool
}

// Watcher watches a vault directory tree.
//
// A removed or renamed directory produces a single event for the directory
// itself, so the watcher keeps the set of documents it has seen and reports
// each one below such a directory as deleted.
type Watcher struct {
	vault   Vault
	handler driving.ChangeHandler
	fsw     *fsnotify.Watcher

	mu    sync.Mutex
	known map[string]struct{}
}

// New creates a watcher on the vault root and every non-hidden
// subdirectory.
func New(vault Vault, handler driving.ChangeHandler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		vault:   vault,
		handler: handler,
		fsw:     fsw,
		known:   make(map[string]struct{}),
	}

	if err := w.addTree(vault.Root()); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.trackTree(vault.Root())
	return w, nil
}

// Run delivers changes until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	logger.Info("Watching %s", w.vault.Root())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// WatchList returns the watched directories.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// A new directory may already hold documents, e.g. one moved in
	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if err := w.addTree(event.Name); err != nil {
			logger.Warn("watch %s: %v", event.Name, err)
			return
		}
		w.createTree(ctx, event.Name)
		return
	}

	change := w.translate(event)
	if change == nil {
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.removeTree(ctx, event.Name)
		}
		return
	}

	// Editors that save by renaming a temporary file over the document
	// produce a Create for a path that already exists.
	if change.Type == domain.ChangeCreated && w.isKnown(change.Path) {
		change.Type = domain.ChangeModified
	}
	w.deliver(ctx, *change)
}

func (w *Watcher) deliver(ctx context.Context, change domain.Change) {
	logger.Debug("%s %s", change.Type, change.Path)
	w.observe(change)

	if err := w.dispatch(ctx, change); err != nil {
		logger.Debug("handling %s of %s: %v", change.Type, change.Path, err)
	}
}

// translate maps a filesystem event to a change. It returns nil for
// events that do not concern a document.
func (w *Watcher) translate(event fsnotify.Event) *domain.Change {
	rel, err := w.vault.Rel(event.Name)
	if err != nil || !w.vault.Matches(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Create):
		return w.readChange(domain.ChangeCreated, event.Name, rel)

	case event.Has(fsnotify.Write):
		return w.readChange(domain.ChangeModified, event.Name, rel)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.Change{Type: domain.ChangeDeleted, Path: rel}

	default:
		// Chmod only
		return nil
	}
}

func (w *Watcher) readChange(t domain.ChangeType, abs, rel string) *domain.Change {
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		// Gone again before we could read it; its Remove event follows.
		return nil
	}
	return &domain.Change{Type: t, Path: rel, Content: string(data)}
}

func (w *Watcher) dispatch(ctx context.Context, change domain.Change) error {
	switch change.Type {
	case domain.ChangeCreated:
		return w.handler.OnCreated(ctx, change.Path, change.Content)
	case domain.ChangeModified:
		return w.handler.OnModified(ctx, change.Path, change.Content)
	case domain.ChangeRenamed:
		return w.handler.OnRenamed(ctx, change.OldPath, change.Path, change.Content)
	case domain.ChangeDeleted:
		return w.handler.OnDeleted(ctx, change.Path)
	default:
		return domain.ErrInvalidInput
	}
}

// addTree watches dir and its non-hidden subdirectories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Subdirectories may vanish while we walk
			if p != dir && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("watch %s: %w", p, err)
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// createTree reports every document below a newly watched directory as
// created.
func (w *Watcher) createTree(ctx context.Context, dir string) {
	w.walkDocuments(dir, func(p string) {
		if change := w.translate(fsnotify.Event{Name: p, Op: fsnotify.Create}); change != nil {
			w.deliver(ctx, *change)
		}
	})
}

// removeTree handles the removal or rename of a path that is not a
// document. If it was a directory, every known document below it is
// reported as deleted and its stale watches are dropped.
func (w *Watcher) removeTree(ctx context.Context, name string) {
	rel, err := w.vault.Rel(name)
	if err != nil {
		return
	}
	w.unwatchTree(name)

	for _, p := range w.knownBelow(rel) {
		w.deliver(ctx, domain.Change{Type: domain.ChangeDeleted, Path: p})
	}
}

// unwatchTree drops the watches on dir and its subdirectories. Errors are
// ignored; fsnotify may already have dropped them.
func (w *Watcher) unwatchTree(dir string) {
	prefix := dir + string(filepath.Separator)
	for _, p := range w.fsw.WatchList() {
		if p == dir || strings.HasPrefix(p, prefix) {
			_ = w.fsw.Remove(p)
		}
	}
}

// trackTree records the documents already below dir.
func (w *Watcher) trackTree(dir string) {
	w.walkDocuments(dir, func(p string) {
		if rel, err := w.vault.Rel(p); err == nil && w.vault.Matches(rel) {
			w.observe(domain.Change{Type: domain.ChangeCreated, Path: rel})
		}
	})
}

// walkDocuments calls fn for every file below dir, skipping hidden
// directories.
func (w *Watcher) walkDocuments(dir string, fn func(path string)) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		fn(p)
		return nil
	})
}

// observe keeps the known set in step with a delivered change.
func (w *Watcher) observe(change domain.Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch change.Type {
	case domain.ChangeCreated, domain.ChangeModified:
		w.known[change.Path] = struct{}{}
	case domain.ChangeRenamed:
		delete(w.known, change.OldPath)
		w.known[change.Path] = struct{}{}
	case domain.ChangeDeleted:
		delete(w.known, change.Path)
	}
}

func (w *Watcher) isKnown(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.known[path]
	return ok
}

// knownBelow returns the known documents below dir in sorted order.
func (w *Watcher) knownBelow(dir string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := dir + "/"
	var paths []string
	for p := range w.known {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
