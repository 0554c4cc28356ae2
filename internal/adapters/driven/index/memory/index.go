// Package memory provides an in-process vector index.
//
// Similarity is the Ochiai coefficient between the lower-cased word sets of
// the query and each chunk, which is enough to rank notes by topic without
// an embedding model. Ties keep insertion order. The index also counts
// dials and schema calls and can be told to fail specific operations, which
// makes it the index of choice for service tests and for offline use.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// Operations that can be made to fail with FailOn.
const (
	OpDial         = "dial"
	OpEnsureSchema = "ensure_schema"
	OpUpsert       = "upsert"
	OpDeleteByID   = "delete_by_id"
	OpDeleteByPath = "delete_by_path"
	OpFindByPath   = "find_by_path"
	OpQuery        = "query"
)

// Ensure Index implements the interfaces.
var (
	_ driven.IndexClient = (*Index)(nil)
	_ driven.IndexDialer = (*Index)(nil)
)

type entry struct {
	record domain.ChunkRecord
	seq    int
	tokens map[string]struct{}
}

// Index is an in-memory vector index. Dial returns the index itself, so
// records survive reconnects the way they would on a remote database.
type Index struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	seq      int
	open     bool
	schema   bool
	failures map[string]error

	dials       int
	schemaCalls int
	lastDial    domain.ConnectionSettings
}

// New creates an empty, closed index.
func New() *Index {
	return &Index{
		entries:  make(map[string]*entry),
		failures: make(map[string]error),
	}
}

// Dial opens the index. Settings are recorded but otherwise ignored.
func (i *Index) Dial(_ context.Context, settings domain.ConnectionSettings) (driven.IndexClient, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.dials++
	i.lastDial = settings
	if err := i.failures[OpDial]; err != nil {
		return nil, err
	}
	i.open = true
	return i, nil
}

// EnsureSchema marks the schema as created.
func (i *Index) EnsureSchema(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.schemaCalls++
	if err := i.check(OpEnsureSchema); err != nil {
		return err
	}
	i.schema = true
	return nil
}

// Upsert inserts or replaces a record by ID.
func (i *Index) Upsert(_ context.Context, record domain.ChunkRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.check(OpUpsert); err != nil {
		return err
	}

	if e, ok := i.entries[record.ID]; ok {
		e.record = record
		e.tokens = tokenSet(record.Content)
		return nil
	}

	i.seq++
	i.entries[record.ID] = &entry{
		record: record,
		seq:    i.seq,
		tokens: tokenSet(record.Content),
	}
	return nil
}

// DeleteByID removes one record.
func (i *Index) DeleteByID(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.check(OpDeleteByID); err != nil {
		return err
	}
	delete(i.entries, id)
	return nil
}

// DeleteByPath removes all records of a path.
func (i *Index) DeleteByPath(_ context.Context, path string) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.check(OpDeleteByPath); err != nil {
		return 0, err
	}

	removed := 0
	for id, e := range i.entries {
		if e.record.Path == path {
			delete(i.entries, id)
			removed++
		}
	}
	return removed, nil
}

// FindByPath returns the records of a path ordered by chunk index.
func (i *Index) FindByPath(_ context.Context, path string) ([]domain.ChunkRecord, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if err := i.check(OpFindByPath); err != nil {
		return nil, err
	}

	var records []domain.ChunkRecord
	for _, e := range i.entries {
		if e.record.Path == path {
			records = append(records, e.record)
		}
	}
	sort.Slice(records, func(a, b int) bool {
		return records[a].ChunkIndex < records[b].ChunkIndex
	})
	return records, nil
}

// QueryBySimilarity ranks every record against text and returns the top K.
func (i *Index) QueryBySimilarity(_ context.Context, text string, topK int) ([]domain.ChunkRecord, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if err := i.check(OpQuery); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, nil
	}

	query := tokenSet(text)
	type scored struct {
		e     *entry
		score float64
	}
	ranked := make([]scored, 0, len(i.entries))
	for _, e := range i.entries {
		ranked = append(ranked, scored{e: e, score: ochiai(query, e.tokens)})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].e.seq < ranked[b].e.seq
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	records := make([]domain.ChunkRecord, len(ranked))
	for n, r := range ranked {
		records[n] = r.e.record
	}
	return records, nil
}

// Close closes the index. Records are kept.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.open = false
	return nil
}

// FailOn makes op return err until ClearFailures is called.
func (i *Index) FailOn(op string, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.failures[op] = err
}

// ClearFailures removes all injected failures.
func (i *Index) ClearFailures() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.failures = make(map[string]error)
}

// Records returns a snapshot of all records ordered by path then chunk index.
func (i *Index) Records() []domain.ChunkRecord {
	i.mu.RLock()
	defer i.mu.RUnlock()

	records := make([]domain.ChunkRecord, 0, len(i.entries))
	for _, e := range i.entries {
		records = append(records, e.record)
	}
	sort.Slice(records, func(a, b int) bool {
		if records[a].Path != records[b].Path {
			return records[a].Path < records[b].Path
		}
		return records[a].ChunkIndex < records[b].ChunkIndex
	})
	return records
}

// Dials returns how many times Dial was called.
func (i *Index) Dials() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dials
}

// SchemaCalls returns how many times EnsureSchema was called.
func (i *Index) SchemaCalls() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.schemaCalls
}

// LastDial returns the settings of the most recent Dial.
func (i *Index) LastDial() domain.ConnectionSettings {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.lastDial
}

// IsOpen reports whether the index is dialled and not closed.
func (i *Index) IsOpen() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.open
}

// check returns the injected failure for op, or ErrNotConnected
// (caller must hold lock).
func (i *Index) check(op string) error {
	if err := i.failures[op]; err != nil {
		return err
	}
	if !i.open {
		return domain.ErrNotConnected
	}
	return nil
}

func tokenSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func ochiai(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if _, ok := b[w]; ok {
			shared++
		}
	}
	return float64(shared) / math.Sqrt(float64(len(a)*len(b)))
}
