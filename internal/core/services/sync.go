package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// Ensure SyncEngine implements the interface.
var _ driving.SyncService = (*SyncEngine)(nil)

// DefaultSyncConcurrency bounds in-flight index requests within one sync.
const DefaultSyncConcurrency = 8

// chunkNamespace scopes chunk identifiers to vecsync.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/vecsync/chunks"))

// ChunkID returns the record identifier for chunk index of path.
// The same pair always yields the same identifier.
func ChunkID(path string, index int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(path+"\x00"+strconv.Itoa(index))).String()
}

// Splitter splits document text into chunks.
type Splitter interface {
	Split(text string) []string
}

// SyncEngine replaces a path's indexed chunks with the chunks of its
// current content: every existing record is deleted, then every current
// chunk is upserted. The ledger, when present, records the outcome.
type SyncEngine struct {
	conn        ClientProvider
	splitter    Splitter
	ledger      driven.IndexStateStore
	concurrency int
	now         func() time.Time
}

// SyncOption configures the sync engine.
type SyncOption func(*SyncEngine)

// WithConcurrency sets the number of concurrent deletes or upserts.
func WithConcurrency(n int) SyncOption {
	return func(e *SyncEngine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithClock overrides the time source used for ledger entries.
func WithClock(now func() time.Time) SyncOption {
	return func(e *SyncEngine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewSyncEngine creates a sync engine. ledger may be nil.
func NewSyncEngine(
	conn ClientProvider,
	splitter Splitter,
	ledger driven.IndexStateStore,
	opts ...SyncOption,
) *SyncEngine {
	e := &SyncEngine{
		conn:        conn,
		splitter:    splitter,
		ledger:      ledger,
		concurrency: DefaultSyncConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sync replaces the indexed chunks of path with the chunks of content.
func (e *SyncEngine) Sync(ctx context.Context, path, content string) error {
	path = domain.NormalisePath(path)
	if path == "" {
		return &domain.SyncError{Op: "validate", Err: domain.ErrInvalidInput}
	}

	// 1. Ensure connection
	client, err := e.conn.Acquire(ctx)
	if err != nil {
		return e.fail(ctx, path, "connect", err)
	}

	// 2. Split current content
	chunks := e.splitter.Split(content)

	// 3. Look up existing records
	existing, err := client.FindByPath(ctx, path)
	if err != nil {
		return e.fail(ctx, path, "find", err)
	}

	// 4. Delete them all before writing anything
	err = e.each(ctx, len(existing), func(ctx context.Context, i int) error {
		return client.DeleteByID(ctx, existing[i].ID)
	})
	if err != nil {
		return e.fail(ctx, path, "delete", err)
	}

	// 5. Upsert current chunks; the index embeds the content
	err = e.each(ctx, len(chunks), func(ctx context.Context, i int) error {
		return client.Upsert(ctx, domain.ChunkRecord{
			ID:         ChunkID(path, i),
			Path:       path,
			ChunkIndex: i,
			Content:    chunks[i],
		})
	})
	if err != nil {
		return e.fail(ctx, path, "upsert", err)
	}

	// 6. Record success
	e.record(ctx, domain.IndexState{
		Path:        path,
		Status:      domain.IndexStatusIndexed,
		Chunks:      len(chunks),
		ContentHash: ContentHash(content),
		UpdatedAt:   e.now(),
	})

	logger.Info("Synced %s (%d chunks, replaced %d)", path, len(chunks), len(existing))
	return nil
}

// Delete removes every indexed chunk of path.
func (e *SyncEngine) Delete(ctx context.Context, path string) error {
	path = domain.NormalisePath(path)
	if path == "" {
		return &domain.SyncError{Op: "validate", Err: domain.ErrInvalidInput}
	}

	client, err := e.conn.Acquire(ctx)
	if err != nil {
		return &domain.SyncError{Path: path, Op: "connect", Err: err}
	}

	removed, err := client.DeleteByPath(ctx, path)
	if err != nil {
		return &domain.SyncError{Path: path, Op: "delete", Err: err}
	}

	if e.ledger != nil {
		if err := e.ledger.Delete(ctx, path); err != nil {
			logger.Warn("removing ledger entry for %s: %v", path, err)
		}
	}

	logger.Info("Deleted %s (%d chunks)", path, removed)
	return nil
}

// SyncAll syncs every document. A connection or configuration failure
// aborts before any document is touched; per-document failures are
// collected and the remaining documents are still synced.
func (e *SyncEngine) SyncAll(
	ctx context.Context,
	docs []domain.Document,
	opts domain.SyncOptions,
) (domain.SyncReport, error) {
	var report domain.SyncReport

	if _, err := e.conn.Acquire(ctx); err != nil {
		return report, fmt.Errorf("connect: %w", err)
	}

	logger.Section("Sync")
	var errs []error
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if opts.SkipUnchanged && e.unchanged(ctx, doc) {
			report.Skipped++
			logger.Debug("Unchanged, skipping %s", doc.Path)
			continue
		}

		if err := e.Sync(ctx, doc.Path, doc.Content); err != nil {
			report.Failed++
			errs = append(errs, err)
			logger.Warn("%v", err)
			continue
		}
		report.Synced++
	}

	logger.Info("Synced %d, skipped %d, failed %d", report.Synced, report.Skipped, report.Failed)
	return report, errors.Join(errs...)
}

// Status returns the ledger entries, or nil without a ledger.
func (e *SyncEngine) Status(ctx context.Context) ([]domain.IndexState, error) {
	if e.ledger == nil {
		return nil, nil
	}
	states, err := e.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	return states, nil
}

// each runs fn for 0..n-1 with bounded concurrency and waits for all of
// them. The first error cancels the rest.
func (e *SyncEngine) each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

func (e *SyncEngine) unchanged(ctx context.Context, doc domain.Document) bool {
	if e.ledger == nil {
		return false
	}
	state, err := e.ledger.Get(ctx, domain.NormalisePath(doc.Path))
	if err != nil {
		return false
	}
	return state.Current(ContentHash(doc.Content))
}

// fail marks path as failed in the ledger and wraps err.
func (e *SyncEngine) fail(ctx context.Context, path, op string, err error) error {
	syncErr := &domain.SyncError{Path: path, Op: op, Err: err}
	e.record(ctx, domain.IndexState{
		Path:      path,
		Status:    domain.IndexStatusFailed,
		LastError: syncErr.Error(),
		UpdatedAt: e.now(),
	})
	return syncErr
}

func (e *SyncEngine) record(ctx context.Context, state domain.IndexState) {
	if e.ledger == nil {
		return
	}
	if err := e.ledger.Save(context.WithoutCancel(ctx), state); err != nil {
		logger.Warn("recording ledger entry for %s: %v", state.Path, err)
	}
}
