package storage

import (
	"context"

	"github.com/kurihiro0119/repo-hub/internal/domain"
)

// Storage is the abstract interface for the persistence layer.
// Only aggregation runs are persisted; repository data never is.
type Storage interface {
	// SaveRun saves a finished aggregation run
	SaveRun(ctx context.Context, run *domain.AggregationRun) error

	// GetRuns retrieves the most recent runs, newest first
	GetRuns(ctx context.Context, limit int) ([]*domain.AggregationRun, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
