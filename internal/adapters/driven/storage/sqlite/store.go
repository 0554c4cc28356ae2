package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/vecsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// DBFileName is the database file inside the data directory.
const DBFileName = "ledger.db"

// Ensure Store implements the interface.
var _ driven.IndexStateStore = (*Store)(nil)

// Store is an SQLite-backed ledger.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.vecsync/data/ledger.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vecsync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting current version: %w", err)
	}
	return version, nil
}

// migrate applies every *.up.sql newer than the recorded version, each in
// its own transaction together with its schema_migrations row.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	currentVersion, err := s.SchemaVersion(context.Background())
	if err != nil {
		return err
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// Save stores or replaces the entry for a path.
func (s *Store) Save(ctx context.Context, state domain.IndexState) error {
	if state.Path == "" {
		return fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO index_states (path, status, chunks, content_hash, last_error, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			status = excluded.status,
			chunks = excluded.chunks,
			content_hash = excluded.content_hash,
			last_error = excluded.last_error,
			updated_at = excluded.updated_at
	`, state.Path, string(state.Status), state.Chunks, state.ContentHash, state.LastError, state.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving index state %s: %w", state.Path, err)
	}
	return nil
}

// Get retrieves the entry for a path.
func (s *Store) Get(ctx context.Context, path string) (*domain.IndexState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, status, chunks, content_hash, last_error, updated_at
		FROM index_states WHERE path = ?
	`, path)

	state, err := scanState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting index state %s: %w", path, err)
	}
	return state, nil
}

// Delete removes the entry for a path. A missing entry is not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM index_states WHERE path = ?", path); err != nil {
		return fmt.Errorf("deleting index state %s: %w", path, err)
	}
	return nil
}

// List returns all entries ordered by path.
func (s *Store) List(ctx context.Context) ([]domain.IndexState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, status, chunks, content_hash, last_error, updated_at
		FROM index_states ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("listing index states: %w", err)
	}
	defer rows.Close()

	var states []domain.IndexState
	for rows.Next() {
		state, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning index state: %w", err)
		}
		states = append(states, *state)
	}
	return states, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanState(row scanner) (*domain.IndexState, error) {
	var (
		state     domain.IndexState
		status    string
		updatedAt int64
	)
	if err := row.Scan(&state.Path, &status, &state.Chunks, &state.ContentHash, &state.LastError, &updatedAt); err != nil {
		return nil, err
	}
	state.Status = domain.IndexStatus(status)
	state.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &state, nil
}
