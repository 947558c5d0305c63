// Package runlog persists summaries of CLI-invoked fixpoint runs in a
// local SQLite database. The engine itself never touches this store; only
// the command layer records and lists history.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	command    TEXT NOT NULL,
	converged  INTEGER NOT NULL,
	epochs     INTEGER NOT NULL,
	delta      REAL NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Run is one recorded fixpoint invocation.
type Run struct {
	ID        string
	Command   string
	Converged bool
	Epochs    int
	Delta     float64
	CreatedAt time.Time
}

// Store wraps the SQLite database holding run history.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the run log at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("runlog: creating %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("runlog: opening database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: initializing schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts a run, filling in the ID and timestamp when absent, and
// returns the stored value.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, converged, epochs, delta, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, boolToInt(run.Converged), run.Epochs, run.Delta, run.CreatedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("runlog: recording run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. limit values below one
// default to 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, converged, epochs, delta, created_at FROM runs ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("runlog: listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var converged int
		if err := rows.Scan(&run.ID, &run.Command, &converged, &run.Epochs, &run.Delta, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("runlog: scanning run: %w", err)
		}
		run.Converged = converged != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runlog: iterating runs: %w", err)
	}
	return runs, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
