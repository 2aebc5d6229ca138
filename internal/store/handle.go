package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// migrations holds one SQL batch per schema version; entry i upgrades the
// database to user_version i+1. Statements are additive only, and index
// creation uses IF NOT EXISTS so re-running against an existing database
// is safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		created TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notes_text ON notes(text);
	CREATE INDEX IF NOT EXISTS idx_notes_completed ON notes(completed);
	CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created);`,
}

// SchemaVersion is the schema version the current build expects. It must
// equal len(migrations).
const SchemaVersion = 1

// Handle owns the lifecycle of the embedded database connection: open,
// versioned schema upgrade, and the sticky unavailable state. Construct one
// per process and pass it to NewSQLiteRepository.
type Handle struct {
	mu      sync.Mutex
	path    string
	version int
	db      *sql.DB
	err     error
}

// NewHandle prepares a handle for the database at path. Nothing is opened
// until Open is called. Use ":memory:" for a non-persistent database.
func NewHandle(path string, version int) *Handle {
	return &Handle{path: path, version: version}
}

// Open establishes the connection and applies any pending schema upgrades.
// It is idempotent for the session: once the connection is live, further
// calls return nil without touching the engine. A failed open is sticky;
// every later call, and every repository operation on this handle, fails
// fast with ErrStorageUnavailable.
func (h *Handle) Open(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		return nil
	}
	if h.err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, h.err)
	}
	if h.version < 1 || h.version > len(migrations) {
		h.err = fmt.Errorf("unsupported schema version %d", h.version)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, h.err)
	}

	db, err := sql.Open("sqlite3", h.path)
	if err == nil {
		err = migrate(ctx, db, h.version)
	}
	if err != nil {
		if db != nil {
			db.Close()
		}
		h.err = err
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	h.db = db
	return nil
}

func migrate(ctx context.Context, db *sql.DB, target int) error {
	var current int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for v := current; v < target; v++ {
		if _, err := db.ExecContext(ctx, migrations[v]); err != nil {
			return fmt.Errorf("upgrade schema to v%d: %w", v+1, err)
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("record schema version v%d: %w", v+1, err)
		}
	}
	return nil
}

// conn returns the live connection. Before a successful Open, and after any
// engine failure, it fails fast with ErrStorageUnavailable so callers never
// silently no-op.
func (h *Handle) conn() (*sql.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		if h.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, h.err)
		}
		return nil, fmt.Errorf("%w: not opened", ErrStorageUnavailable)
	}
	return h.db, nil
}

// markFailed transitions the handle to the unavailable state after the
// engine rejected a transaction. The connection is torn down; there is no
// in-session retry.
func (h *Handle) markFailed(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err == nil {
		h.err = err
	}
	if h.db != nil {
		h.db.Close()
		h.db = nil
	}
}

// Unavailable reports whether the handle is in the sticky failure state.
func (h *Handle) Unavailable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err != nil
}

// Close closes the database connection.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}
