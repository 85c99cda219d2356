package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kurihiro0119/repo-hub/internal/domain"
	"github.com/kurihiro0119/repo-hub/internal/storage"
)

// sqliteStorage implements the Storage interface for SQLite
type sqliteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &sqliteStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS aggregation_runs (
		id TEXT PRIMARY KEY,
		backend TEXT NOT NULL,
		primary_account TEXT NOT NULL,
		orgs TEXT NOT NULL,
		repo_count INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_aggregation_runs_started_at ON aggregation_runs(started_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveRun saves an aggregation run
func (s *sqliteStorage) SaveRun(ctx context.Context, run *domain.AggregationRun) error {
	orgs, err := json.Marshal(run.Orgs)
	if err != nil {
		return fmt.Errorf("failed to encode orgs: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO aggregation_runs (id, backend, primary_account, orgs, repo_count, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		run.Backend.String(),
		run.Primary,
		string(orgs),
		run.RepoCount,
		string(run.Status),
		run.Error,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
	)
	return err
}

// GetRuns retrieves the most recent aggregation runs
func (s *sqliteStorage) GetRuns(ctx context.Context, limit int) ([]*domain.AggregationRun, error) {
	query := `
		SELECT id, backend, primary_account, orgs, repo_count, status, error, started_at, finished_at
		FROM aggregation_runs
		ORDER BY started_at DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*domain.AggregationRun{}
	for rows.Next() {
		var r domain.AggregationRun
		var backend, orgs, status string

		err := rows.Scan(&r.ID, &backend, &r.Primary, &orgs, &r.RepoCount, &status, &r.Error, &r.StartedAt, &r.FinishedAt)
		if err != nil {
			return nil, err
		}

		if err := r.Backend.UnmarshalText([]byte(backend)); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(orgs), &r.Orgs); err != nil {
			return nil, fmt.Errorf("failed to decode orgs of run %s: %w", r.ID, err)
		}
		r.Status = domain.RunStatus(status)

		runs = append(runs, &r)
	}

	return runs, rows.Err()
}

// Close closes the database connection
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
