// Package store provides SQLite-backed persistence for scan run history.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/drxyu/cerebras-code-scanner/internal/scanner"
)

// ScanRun is one persisted scan run summary.
type ScanRun struct {
	RunID        string
	Root         string
	Model        string
	FilesScanned int
	APICalls     int
	FailedCalls  int
	Records      int
	DurationMS   int64
	StartedAt    time.Time
}

// RunFile is one scanned file within a persisted run.
type RunFile struct {
	RunID    string
	Path     string
	Language string
	Records  int
}

// Store wraps a SQLite database holding scan run history.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) a SQLite database at dbPath and ensures
// all required tables exist. Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			run_id        TEXT PRIMARY KEY,
			root          TEXT NOT NULL,
			model         TEXT NOT NULL,
			files_scanned INTEGER NOT NULL,
			api_calls     INTEGER NOT NULL,
			failed_calls  INTEGER NOT NULL,
			records       INTEGER NOT NULL,
			duration_ms   INTEGER NOT NULL,
			started_at    DATETIME NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS run_files (
			run_id   TEXT NOT NULL,
			path     TEXT NOT NULL,
			language TEXT NOT NULL,
			records  INTEGER NOT NULL,
			PRIMARY KEY (run_id, path)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveRun persists a completed scan report: one scan_runs row plus one
// run_files row per scanned file.
func (s *Store) SaveRun(rep *scanner.Report, model string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO scan_runs
		 (run_id, root, model, files_scanned, api_calls, failed_calls, records, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))`,
		rep.RunID, rep.Root, model,
		rep.Stats.FilesScanned, rep.Stats.APICalls, rep.Stats.FailedCalls,
		rep.Stats.Records, rep.Stats.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	for _, path := range rep.Result.Files() {
		records := rep.Result.Records(path)
		lang := ""
		if len(records) > 0 {
			lang = string(records[0].Language)
		}
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO run_files (run_id, path, language, records)
			 VALUES (?, ?, ?, ?)`,
			rep.RunID, path, lang, len(records),
		)
		if err != nil {
			return fmt.Errorf("save run file: %w", err)
		}
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *Store) ListRuns(limit int) ([]ScanRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT run_id, root, model, files_scanned, api_calls, failed_calls, records, duration_ms, started_at
		 FROM scan_runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []ScanRun
	for rows.Next() {
		var r ScanRun
		if err := rows.Scan(&r.RunID, &r.Root, &r.Model, &r.FilesScanned, &r.APICalls,
			&r.FailedCalls, &r.Records, &r.DurationMS, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFiles returns the files recorded for a run.
func (s *Store) RunFiles(runID string) ([]RunFile, error) {
	rows, err := s.db.Query(
		`SELECT run_id, path, language, records
		 FROM run_files WHERE run_id = ? ORDER BY path`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run files: %w", err)
	}
	defer rows.Close()

	var files []RunFile
	for rows.Next() {
		var f RunFile
		if err := rows.Scan(&f.RunID, &f.Path, &f.Language, &f.Records); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
