// Package store provides persistence collaborators for comparison aggregates.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/triadlabs/triad/pkg/arena"
	"github.com/triadlabs/triad/pkg/arena/compare"
)

// SQLiteStore persists comparison aggregates to a local SQLite database
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Verify SQLiteStore implements arena.Store
var _ arena.Store = (*SQLiteStore)(nil)

// NewSQLite opens (and migrates) the comparison database under dataDir
func NewSQLite(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "triad.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS comparisons (
		id TEXT PRIMARY KEY,
		prompt TEXT NOT NULL,
		outcomes_json TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_comparisons_created ON comparisons(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save writes the aggregate and returns it unchanged
func (s *SQLiteStore) Save(ctx context.Context, aggregate *compare.Aggregate) (*compare.Aggregate, error) {
	outcomes, err := json.Marshal(aggregate.Outcomes)
	if err != nil {
		return nil, fmt.Errorf("marshal outcomes: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comparisons (id, prompt, outcomes_json, created_at) VALUES (?, ?, ?, ?)`,
		aggregate.ID, aggregate.Prompt, string(outcomes), aggregate.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert comparison: %w", err)
	}

	return aggregate, nil
}

// Get loads one aggregate by id
func (s *SQLiteStore) Get(ctx context.Context, id string) (*compare.Aggregate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, prompt, outcomes_json, created_at FROM comparisons WHERE id = ?`, id)

	return scanAggregate(row)
}

// List returns the most recent aggregates, newest first
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*compare.Aggregate, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prompt, outcomes_json, created_at FROM comparisons ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query comparisons: %w", err)
	}
	defer rows.Close()

	var aggregates []*compare.Aggregate
	for rows.Next() {
		aggregate, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, aggregate)
	}

	return aggregates, rows.Err()
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAggregate(row scanner) (*compare.Aggregate, error) {
	var (
		aggregate compare.Aggregate
		outcomes  string
		createdAt time.Time
	)

	if err := row.Scan(&aggregate.ID, &aggregate.Prompt, &outcomes, &createdAt); err != nil {
		return nil, fmt.Errorf("scan comparison: %w", err)
	}

	if err := json.Unmarshal([]byte(outcomes), &aggregate.Outcomes); err != nil {
		return nil, fmt.Errorf("unmarshal outcomes: %w", err)
	}

	aggregate.CreatedAt = createdAt
	return &aggregate, nil
}
