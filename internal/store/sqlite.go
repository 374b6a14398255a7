package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/shiromoto/siteindex/internal/index"
)

// SQLiteSink persists index snapshots into a SQLite database.
// Each write replaces the stored snapshot inside a single transaction,
// so readers never observe a half-flushed index.
//
// Design decision: Positions are stored as a JSON array per
// (term, url) row rather than one row per occurrence. The index is only
// ever written and read as a whole snapshot, so normalized occurrence
// rows would cost insert volume without enabling any query we run.
type SQLiteSink struct {
	db     *sql.DB
	dbPath string
}

// OpenSQLite opens or creates the index database under dbDir.
func OpenSQLite(dbDir string) (*SQLiteSink, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dbPath := filepath.Join(dbDir, "siteindex.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a larger pool buys nothing here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLiteSink{db: db, dbPath: dbPath}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// Location returns the database file path.
func (s *SQLiteSink) Location() string {
	return s.dbPath
}

// createTables creates the schema if it doesn't exist.
func (s *SQLiteSink) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS postings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		term TEXT NOT NULL,
		url TEXT NOT NULL,
		positions TEXT NOT NULL,
		UNIQUE(term, url)
	);

	CREATE INDEX IF NOT EXISTS idx_postings_term ON postings(term);
	CREATE INDEX IF NOT EXISTS idx_postings_url ON postings(url);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Write replaces the stored snapshot with snap in one transaction.
func (s *SQLiteSink) Write(ctx context.Context, snap index.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM postings"); err != nil {
		return fmt.Errorf("failed to clear postings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO postings (term, url, positions) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for term, postings := range snap {
		for url, positions := range postings {
			encoded, err := json.Marshal(positions)
			if err != nil {
				return fmt.Errorf("failed to serialize positions: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, term, url, string(encoded)); err != nil {
				return fmt.Errorf("failed to insert posting: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot back. A freshly created database yields
// an empty snapshot, not an error.
func (s *SQLiteSink) Load(ctx context.Context) (index.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT term, url, positions FROM postings")
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	defer rows.Close()

	snap := make(index.Snapshot)
	for rows.Next() {
		var term, url, encoded string
		if err := rows.Scan(&term, &url, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}

		var positions []int
		if err := json.Unmarshal([]byte(encoded), &positions); err != nil {
			return nil, fmt.Errorf("failed to parse positions: %w", err)
		}

		if snap[term] == nil {
			snap[term] = make(map[string][]int)
		}
		snap[term][url] = positions
	}
	return snap, rows.Err()
}
