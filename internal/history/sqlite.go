package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		kernel TEXT NOT NULL,
		tag TEXT NOT NULL,
		size INTEGER NOT NULL,
		discipline TEXT NOT NULL,
		mean_ns REAL NOT NULL,
		samples INTEGER NOT NULL,
		path TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_records_kernel ON records (kernel, created_at);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append inserts entries in a single transaction
func (s *SQLiteStore) Append(ctx context.Context, entries []Entry) error {
	return appendEntries(ctx, s.db, entries,
		`INSERT INTO records (run_id, kernel, tag, size, discipline, mean_ns, samples, path, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
}

// Query retrieves the most recent entries
func (s *SQLiteStore) Query(ctx context.Context, kernel string, limit int) ([]Entry, error) {
	query := `SELECT id, run_id, kernel, tag, size, discipline, mean_ns, samples, path, created_at
		FROM records WHERE (? = '' OR kernel = ?) ORDER BY created_at DESC, id DESC LIMIT ?`
	return queryEntries(ctx, s.db, query, kernel, kernel, limit)
}

func appendEntries(ctx context.Context, db *sql.DB, entries []Entry, insert string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.RunID, e.Kernel, e.Tag, e.Size, e.Discipline, e.MeanNs, e.Samples, e.Path, e.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert %s/%s: %w", e.RunID, e.Kernel, err)
		}
	}
	return tx.Commit()
}

func queryEntries(ctx context.Context, db *sql.DB, query string, args ...any) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RunID, &e.Kernel, &e.Tag, &e.Size, &e.Discipline, &e.MeanNs, &e.Samples, &e.Path, &e.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
