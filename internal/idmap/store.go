// Package idmap persists identifier remap tables to SQLite so the raw
// runtime object IDs behind a normalized trace can be recovered later,
// or the mappings of two runs joined and compared.
package idmap

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tracekit/synthnorm/internal/trace"
)

// Store is a SQLite-backed store of remap assignments.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a remap store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore creates the id_map table and index if they don't exist, then
// returns a Store backed by the provided *sql.DB.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS id_map (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run        TEXT    NOT NULL,
			raw_id     INTEGER NOT NULL,
			normal_id  INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("create id_map table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_id_map_run_raw
		ON id_map (run, raw_id)
	`); err != nil {
		return nil, fmt.Errorf("create id_map index: %w", err)
	}

	return &Store{db: db}, nil
}

// RecordRun inserts the full remap table for one normalization run in a
// single transaction.
func (s *Store) RecordRun(run string, assignments []trace.Assignment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin idmap transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO id_map (run, raw_id, normal_id, created_at) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare idmap insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixNano()
	for _, a := range assignments {
		if _, err := stmt.Exec(run, a.Raw, a.Normalized, now); err != nil {
			return fmt.Errorf("record assignment %d->%d: %w", a.Raw, a.Normalized, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit idmap transaction: %w", err)
	}
	return nil
}

// Lookup returns the normalized ID recorded for raw in the given run.
// The second return is false when no assignment was recorded.
func (s *Store) Lookup(run string, raw int64) (int64, bool, error) {
	row := s.db.QueryRow(
		`SELECT normal_id FROM id_map WHERE run = ? AND raw_id = ? ORDER BY created_at DESC LIMIT 1`,
		run, raw,
	)
	var normal int64
	if err := row.Scan(&normal); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lookup %d in run %q: %w", raw, run, err)
	}
	return normal, true, nil
}

// Runs returns the distinct run names in the store, most recent first.
func (s *Store) Runs() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT run FROM id_map GROUP BY run ORDER BY MAX(created_at) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs rows: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
