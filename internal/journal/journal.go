// Package journal keeps an audit log of every mutating operation jellyctl
// performs against a server, dry runs included.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Operation identifies what was done.
type Operation string

const (
	OpDeleteVariant Operation = "delete_variant"
	OpDeleteItem    Operation = "delete_item"
	OpMarkWatched   Operation = "mark_watched"
	OpMarkUnwatched Operation = "mark_unwatched"
	OpRefresh       Operation = "refresh"
	OpDownload      Operation = "download"
	OpStopSession   Operation = "stop_session"
	OpShare         Operation = "share"
	OpUnshare       Operation = "unshare"
)

// Entry is one journaled operation.
type Entry struct {
	ID         int64
	RunID      string
	Operation  Operation
	Server     string
	ItemID     string
	Title      string
	Path       string
	Bytes      int64
	DryRun     bool
	Error      string
	ExecutedAt time.Time
}

// Recorder accepts journal entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

// Journal is the SQLite backed recorder.
type Journal struct {
	db    *sql.DB
	path  string
	runID string
	mu    sync.Mutex
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return newJournal(db, path)
}

// OpenInMemory opens a throwaway journal for tests.
func OpenInMemory() (*Journal, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory journal: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)
	return newJournal(db, ":memory:")
}

func newJournal(db *sql.DB, path string) (*Journal, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return &Journal{db: db, path: path, runID: uuid.NewString()}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database location.
func (j *Journal) Path() string {
	return j.path
}

// RunID identifies the process invocation entries are recorded under.
func (j *Journal) RunID() string {
	return j.runID
}

// Record stores e. ExecutedAt defaults to now and RunID to the journal's run.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now()
	}
	if e.RunID == "" {
		e.RunID = j.runID
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO operations (
			run_id, operation, server, item_id, title, path, bytes, dry_run, error, executed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.RunID, string(e.Operation), e.Server, e.ItemID, e.Title, e.Path, e.Bytes, e.DryRun, e.Error, e.ExecutedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Operation, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, run_id, operation, server, item_id, title, path, bytes, dry_run,
		       COALESCE(error, ''), executed_at
		FROM operations
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var op string
		if err := rows.Scan(&e.ID, &e.RunID, &op, &e.Server, &e.ItemID, &e.Title, &e.Path,
			&e.Bytes, &e.DryRun, &e.Error, &e.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		e.Operation = Operation(op)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
