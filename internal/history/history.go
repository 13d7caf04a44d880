package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hasu-dev/linkscan/internal/model"
)

// dbFileName is the history database file inside the data directory.
const dbFileName = "linkscan.db"

// DB provides SQLite-based storage for scan history.
//
// Design decision: one database file for all scans rather than a file
// per run. This keeps cross-run queries (how did this link's status
// change over time) trivial and makes backup a single-file copy.
type DB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ReadOnlyOptions returns options for opening an existing database
// without creating one, used by the history listing command.
func ReadOnlyOptions() Options {
	return Options{
		CreateIfNotExists: false,
		EnableWAL:         false,
	}
}

// Open opens or creates the history database in the given directory.
// With CreateIfNotExists unset, a missing database is an error.
func Open(dir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("no scan history found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to forbid creating new files and
	// mode=rwc to allow it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY errors during report saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &DB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if opts.CreateIfNotExists {
		if err := hdb.createTables(); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *DB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *DB) createTables() error {
	schema := `
	-- One row per scan run
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scanned_at DATETIME NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		source_count INTEGER NOT NULL,
		link_count INTEGER NOT NULL,
		unreachable_count INTEGER NOT NULL
	);

	-- One row per link record discovered in a scan
	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id INTEGER NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		source_url TEXT NOT NULL,
		link_url TEXT NOT NULL,
		status_code INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_links_scan ON links(scan_id);
	CREATE INDEX IF NOT EXISTS idx_links_url ON links(link_url);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport records one scan run and all of its link records.
// Returns the new scan's row ID.
func (h *DB) SaveReport(ctx context.Context, report *model.Report) (int64, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO scans (scanned_at, elapsed_ms, source_count, link_count, unreachable_count)
		 VALUES (?, ?, ?, ?, ?)`,
		report.ScannedAt.UTC(),
		report.Elapsed.Milliseconds(),
		len(report.Sources),
		report.TotalLinks(),
		report.UnreachableLinks(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	scanID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO links (scan_id, source_url, link_url, status_code) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // Read-only cleanup

	for _, src := range report.Sources {
		for _, link := range src.Links {
			if _, err := stmt.ExecContext(ctx, scanID, src.Source, link.URL, link.Status); err != nil {
				return 0, fmt.Errorf("failed to insert link record: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return scanID, nil
}

// ScanSummary is one row of the scan history listing.
type ScanSummary struct {
	// ID is the scan's database row ID.
	ID int64

	// ScannedAt is when the scan started.
	ScannedAt time.Time

	// Elapsed is the scan's wall-clock duration.
	Elapsed time.Duration

	// Sources is the number of source pages scanned.
	Sources int

	// Links is the number of link records collected.
	Links int

	// Unreachable is the number of links that could not be probed.
	Unreachable int
}

// RecentScans returns up to limit scans, newest first.
func (h *DB) RecentScans(ctx context.Context, limit int) ([]ScanSummary, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, scanned_at, elapsed_ms, source_count, link_count, unreachable_count
		 FROM scans ORDER BY scanned_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cleanup

	summaries := make([]ScanSummary, 0, limit)
	for rows.Next() {
		var s ScanSummary
		var elapsedMS int64
		if err := rows.Scan(&s.ID, &s.ScannedAt, &elapsedMS, &s.Sources, &s.Links, &s.Unreachable); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// LinkHistory returns the recorded statuses of one link URL across past
// scans, newest first.
func (h *DB) LinkHistory(ctx context.Context, linkURL string, limit int) ([]model.LinkRecord, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT l.link_url, l.status_code
		 FROM links l JOIN scans s ON s.id = l.scan_id
		 WHERE l.link_url = ?
		 ORDER BY s.scanned_at DESC, l.id DESC LIMIT ?`, linkURL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query link history: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cleanup

	records := make([]model.LinkRecord, 0, limit)
	for rows.Next() {
		var rec model.LinkRecord
		if err := rows.Scan(&rec.URL, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
