package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// Ensure ChangeRouter implements the interface.
var _ driving.ChangeHandler = (*ChangeRouter)(nil)

// ChangeRouter turns vault changes into sync engine calls. Edits are
// debounced per path; creations, renames and deletions act immediately and
// cancel any pending edit of the paths they touch.
type ChangeRouter struct {
	sync     driving.SyncService
	source   driven.DocumentSource
	debounce *Coalescer
}

// NewChangeRouter creates a router. source may be nil, in which case a
// deferred edit is synced without checking the document still exists.
func NewChangeRouter(sync driving.SyncService, source driven.DocumentSource, debounce *Coalescer) *ChangeRouter {
	if debounce == nil {
		debounce = NewCoalescer(DefaultDebounce)
	}
	return &ChangeRouter{
		sync:     sync,
		source:   source,
		debounce: debounce,
	}
}

// Handle dispatches a change to the matching handler.
func (r *ChangeRouter) Handle(ctx context.Context, change domain.Change) error {
	switch change.Type {
	case domain.ChangeCreated:
		return r.OnCreated(ctx, change.Path, change.Content)
	case domain.ChangeModified:
		return r.OnModified(ctx, change.Path, change.Content)
	case domain.ChangeRenamed:
		return r.OnRenamed(ctx, change.OldPath, change.Path, change.Content)
	case domain.ChangeDeleted:
		return r.OnDeleted(ctx, change.Path)
	default:
		return domain.ErrInvalidInput
	}
}

// OnCreated syncs a new document immediately.
func (r *ChangeRouter) OnCreated(ctx context.Context, path, content string) error {
	path = domain.NormalisePath(path)
	r.debounce.Cancel(path)

	if err := r.sync.Sync(ctx, path, content); err != nil {
		logger.Error("%v", err)
		return err
	}
	return nil
}

// OnModified defers the sync until the path has been quiet for the
// debounce period. The deferred sync uses the content of the last edit and
// is skipped if the document has since disappeared.
func (r *ChangeRouter) OnModified(ctx context.Context, path, content string) error {
	path = domain.NormalisePath(path)
	detached := context.WithoutCancel(ctx)

	r.debounce.Notify(path, func() error {
		if r.source != nil && !r.source.Exists(path) {
			logger.Debug("Skipping %s: no longer exists", path)
			return nil
		}
		return r.sync.Sync(detached, path, content)
	})
	logger.Debug("Scheduled sync of %s in %s", path, r.debounce.Delay())
	return nil
}

// OnRenamed removes the old path's chunks and syncs the new path.
func (r *ChangeRouter) OnRenamed(ctx context.Context, oldPath, newPath, content string) error {
	oldPath = domain.NormalisePath(oldPath)
	newPath = domain.NormalisePath(newPath)
	r.debounce.Cancel(oldPath)
	r.debounce.Cancel(newPath)

	delErr := r.sync.Delete(ctx, oldPath)
	if delErr != nil {
		logger.Error("%v", delErr)
	}

	syncErr := r.sync.Sync(ctx, newPath, content)
	if syncErr != nil {
		logger.Error("%v", syncErr)
	}

	return errors.Join(delErr, syncErr)
}

// OnDeleted removes the path's chunks.
func (r *ChangeRouter) OnDeleted(ctx context.Context, path string) error {
	path = domain.NormalisePath(path)
	r.debounce.Cancel(path)

	if err := r.sync.Delete(ctx, path); err != nil {
		logger.Error("%v", err)
		return err
	}
	return nil
}

// Close cancels every pending deferred sync and waits for running ones.
func (r *ChangeRouter) Close() {
	r.debounce.CancelAll()
	r.debounce.Wait()
}
