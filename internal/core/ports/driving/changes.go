package driving

import "context"

// ChangeHandler receives vault change notifications. It does not care how
// they are delivered.
type ChangeHandler interface {
	// OnCreated handles a new document. It is synced immediately.
	OnCreated(ctx context.Context, path, content string) error

	// OnModified handles an edited document. The sync is deferred until
	// edits to the path have been quiet for the debounce period.
	OnModified(ctx context.Context, path, content string) error

	// OnRenamed handles a document that moved from oldPath to newPath.
	OnRenamed(ctx context.Context, oldPath, newPath, content string) error

	// OnDeleted handles a removed document.
	OnDeleted(ctx context.Context, path string) error
}
