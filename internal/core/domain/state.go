package domain

import "time"

// IndexStatus is the outcome of the last sync of a path.
type IndexStatus string

const (
	// IndexStatusIndexed means the index holds exactly the current chunks.
	IndexStatusIndexed IndexStatus = "indexed"

	// IndexStatusFailed means the last sync did not complete; the index may
	// hold a partial or stale chunk set for the path.
	IndexStatusFailed IndexStatus = "failed"
)

// IndexState is the local ledger entry for one synced path.
type IndexState struct {
	Path        string
	Status      IndexStatus
	Chunks      int
	ContentHash string
	LastError   string
	UpdatedAt   time.Time
}

// Current reports whether the path was indexed from content with the given
// hash, so a resync would change nothing.
func (s IndexState) Current(hash string) bool {
	return s.Status == IndexStatusIndexed && s.ContentHash == hash
}

// SyncOptions controls a bulk sync.
type SyncOptions struct {
	// SkipUnchanged skips documents whose ledger entry is indexed with the
	// same content hash.
	SkipUnchanged bool
}

// SyncReport summarises a bulk sync.
type SyncReport struct {
	Synced  int
	Skipped int
	Failed  int
}

// Total returns the number of documents considered.
func (r SyncReport) Total() int {
	return r.Synced + r.Skipped + r.Failed
}
