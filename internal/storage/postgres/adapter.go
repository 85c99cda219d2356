package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/kurihiro0119/repo-hub/internal/domain"
	"github.com/kurihiro0119/repo-hub/internal/storage"
)

// postgresStorage implements the Storage interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(connStr string) (storage.Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &postgresStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *postgresStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS aggregation_runs (
		id TEXT PRIMARY KEY,
		backend TEXT NOT NULL,
		primary_account TEXT NOT NULL,
		orgs JSONB NOT NULL,
		repo_count INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_aggregation_runs_started_at ON aggregation_runs(started_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveRun saves an aggregation run
func (s *postgresStorage) SaveRun(ctx context.Context, run *domain.AggregationRun) error {
	orgs, err := json.Marshal(run.Orgs)
	if err != nil {
		return fmt.Errorf("failed to encode orgs: %w", err)
	}

	query := `
		INSERT INTO aggregation_runs (id, backend, primary_account, orgs, repo_count, status, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			repo_count = EXCLUDED.repo_count,
			status = EXCLUDED.status,
			error = EXCLUDED.error,
			finished_at = EXCLUDED.finished_at
	`
	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		run.Backend.String(),
		run.Primary,
		string(orgs),
		run.RepoCount,
		string(run.Status),
		run.Error,
		run.StartedAt,
		run.FinishedAt,
	)
	return err
}

// GetRuns retrieves the most recent aggregation runs
func (s *postgresStorage) GetRuns(ctx context.Context, limit int) ([]*domain.AggregationRun, error) {
	query := `
		SELECT id, backend, primary_account, orgs, repo_count, status, error, started_at, finished_at
		FROM aggregation_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*domain.AggregationRun{}
	for rows.Next() {
		var r domain.AggregationRun
		var backend, status string
		var orgs []byte

		err := rows.Scan(&r.ID, &backend, &r.Primary, &orgs, &r.RepoCount, &status, &r.Error, &r.StartedAt, &r.FinishedAt)
		if err != nil {
			return nil, err
		}

		if err := r.Backend.UnmarshalText([]byte(backend)); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(orgs, &r.Orgs); err != nil {
			return nil, fmt.Errorf("failed to decode orgs of run %s: %w", r.ID, err)
		}
		r.Status = domain.RunStatus(status)

		runs = append(runs, &r)
	}

	return runs, rows.Err()
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	return s.db.Close()
}
