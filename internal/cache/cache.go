// Package cache persists per-file processing results in SQLite so repeated
// batch runs skip files that were already handled. The cache is an
// optimization, never a correctness dependency: callers treat any cache
// failure as "file not cached" and redo the work.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KhanhD1nh/compare-gcn/constants"
)

// Record is one cached processing result, keyed by file fingerprint.
// At most one record exists per fingerprint; writes replace.
type Record struct {
	Fingerprint  string
	FilePath     string
	FileName     string
	ProcessedAt  time.Time
	Status       constants.Status
	Verdict      constants.Verdict
	FilenameID   string
	RecognizedID string
	ErrorDetail  string
}

// Stats summarizes the cache contents.
type Stats struct {
	Total     int
	PerStatus map[constants.Status]int
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS processed_files (
    file_hash TEXT PRIMARY KEY,
    file_path TEXT NOT NULL,
    file_name TEXT NOT NULL,
    processed_at TEXT NOT NULL,
    status TEXT,
    comparison TEXT,
    filename_gcn TEXT,
    predicted_gcn TEXT,
    error TEXT
);
CREATE INDEX IF NOT EXISTS idx_file_name ON processed_files(file_name);
`

// Store manages result persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the cache database and ensures the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Debug("cache opened", "path", path)
	return &Store{db: db, path: path, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the cached record for a fingerprint, or nil when absent.
func (s *Store) Lookup(ctx context.Context, fingerprint string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT file_hash, file_path, file_name, processed_at, status,
               comparison, filename_gcn, predicted_gcn, error
        FROM processed_files
        WHERE file_hash = ?`, fingerprint)

	var rec Record
	var processedAt string
	var status, comparison, filenameID, recognizedID, errDetail sql.NullString
	err := row.Scan(&rec.Fingerprint, &rec.FilePath, &rec.FileName, &processedAt,
		&status, &comparison, &filenameID, &recognizedID, &errDetail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", fingerprint, err)
	}

	if ts, parseErr := time.Parse(time.RFC3339Nano, processedAt); parseErr == nil {
		rec.ProcessedAt = ts
	}
	rec.Status = constants.Status(status.String)
	rec.Verdict = constants.Verdict(comparison.String)
	rec.FilenameID = filenameID.String
	rec.RecognizedID = recognizedID.String
	rec.ErrorDetail = errDetail.String
	return &rec, nil
}

// Upsert writes a record, replacing any previous one for the same
// fingerprint. Last write wins; there is no read-modify-write dependency
// between records, so concurrent workers may call this freely.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	if rec.Fingerprint == "" {
		return errors.New("fingerprint is required")
	}
	processedAt := rec.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
        REPLACE INTO processed_files
            (file_hash, file_path, file_name, processed_at, status,
             comparison, filename_gcn, predicted_gcn, error)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Fingerprint,
		rec.FilePath,
		rec.FileName,
		processedAt.Format(time.RFC3339Nano),
		string(rec.Status),
		string(rec.Verdict),
		rec.FilenameID,
		rec.RecognizedID,
		rec.ErrorDetail,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.Fingerprint, err)
	}
	return nil
}

// Remove deletes the record for a fingerprint. Removing an absent
// fingerprint is not an error.
func (s *Store) Remove(ctx context.Context, fingerprint string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM processed_files WHERE file_hash = ?", fingerprint); err != nil {
		return fmt.Errorf("remove %s: %w", fingerprint, err)
	}
	return nil
}

// Clear deletes every record.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM processed_files"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// CacheStats reports the total record count and a per-status breakdown.
func (s *Store) CacheStats(ctx context.Context) (Stats, error) {
	stats := Stats{PerStatus: make(map[constants.Status]int)}

	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM processed_files").Scan(&stats.Total); err != nil {
		return stats, fmt.Errorf("count records: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM processed_files GROUP BY status")
	if err != nil {
		return stats, fmt.Errorf("count per status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var status sql.NullString
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return stats, fmt.Errorf("scan status count: %w", err)
		}
		stats.PerStatus[constants.Status(status.String)] = n
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate status counts: %w", err)
	}
	return stats, nil
}
