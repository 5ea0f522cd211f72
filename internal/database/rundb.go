package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pkgdoc/manbook/internal/model"
)

// RunDB provides SQLite-based storage for harvest run history.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; otherwise a missing database is an error.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "manbook.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- One row per completed harvest run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		output TEXT NOT NULL,
		format TEXT NOT NULL,
		processed INTEGER NOT NULL,
		packages_with_docs INTEGER NOT NULL,
		total_pages INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	-- Per-package worker errors recorded during a run
	CREATE TABLE IF NOT EXISTS run_failures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		package TEXT NOT NULL,
		message TEXT NOT NULL,
		FOREIGN KEY(run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_run_failures_run_id ON run_failures(run_id);
	`
	_, err := rdb.db.Exec(schema)
	return err
}

// SaveRun persists a completed run's summary and failures.
// Returns the new run's row ID.
func (rdb *RunDB) SaveRun(ctx context.Context, summary *model.Summary) (int64, error) {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // No-op after commit
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, duration_ms, output, format, processed, packages_with_docs, total_pages)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.StartedAt.UTC().Format(time.RFC3339),
		summary.Duration.Milliseconds(),
		summary.Output,
		summary.Format,
		summary.Processed,
		summary.PackagesWithDocs,
		summary.TotalPages,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, f := range summary.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_failures (run_id, package, message) VALUES (?, ?, ?)`,
			runID, f.Package, f.Message,
		); err != nil {
			return 0, fmt.Errorf("failed to insert failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// RunRecord is one stored run with its row ID.
type RunRecord struct {
	// ID is the database row ID.
	ID int64 `json:"id"`

	// Summary is the stored run summary.
	Summary model.Summary `json:"summary"`
}

// ListRuns returns the most recent runs, newest first, up to limit.
// A non-positive limit returns all runs.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT id, started_at, duration_ms, output, format, processed, packages_with_docs, total_pages
	          FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec        RunRecord
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(
			&rec.ID,
			&startedAt,
			&durationMS,
			&rec.Summary.Output,
			&rec.Summary.Format,
			&rec.Summary.Processed,
			&rec.Summary.PackagesWithDocs,
			&rec.Summary.TotalPages,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.Summary.StartedAt = parseTimestamp(startedAt)
		rec.Summary.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for i := range records {
		failures, err := rdb.runFailures(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Summary.Failures = failures
	}
	return records, nil
}

// LatestRun returns the most recent run, or nil when the database is
// empty.
func (rdb *RunDB) LatestRun(ctx context.Context) (*RunRecord, error) {
	records, err := rdb.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// runFailures loads the failure list for one run.
func (rdb *RunDB) runFailures(ctx context.Context, runID int64) ([]model.Failure, error) {
	rows, err := rdb.db.QueryContext(ctx,
		`SELECT package, message FROM run_failures WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var failures []model.Failure
	for rows.Next() {
		var f model.Failure
		if err := rows.Scan(&f.Package, &f.Message); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

// parseTimestamp parses a stored RFC3339 timestamp, falling back to the
// SQLite datetime shape for rows written by other tools.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
