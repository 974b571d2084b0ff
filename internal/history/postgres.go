package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL, for labs that share one
// history across machines.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to dsn and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id SERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			kernel TEXT NOT NULL,
			tag TEXT NOT NULL,
			size INTEGER NOT NULL,
			discipline TEXT NOT NULL,
			mean_ns DOUBLE PRECISION NOT NULL,
			samples INTEGER NOT NULL,
			path TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_records_kernel ON records (kernel, created_at);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Append inserts entries in a single transaction
func (s *PostgresStore) Append(ctx context.Context, entries []Entry) error {
	return appendEntries(ctx, s.db, entries,
		`INSERT INTO records (run_id, kernel, tag, size, discipline, mean_ns, samples, path, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
}

// Query retrieves the most recent entries
func (s *PostgresStore) Query(ctx context.Context, kernel string, limit int) ([]Entry, error) {
	query := `SELECT id, run_id, kernel, tag, size, discipline, mean_ns, samples, path, created_at
		FROM records WHERE ($1::text = '' OR kernel = $1) ORDER BY created_at DESC, id DESC LIMIT $2`
	return queryEntries(ctx, s.db, query, kernel, limit)
}
