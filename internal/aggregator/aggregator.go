package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kurihiro0119/repo-hub/internal/collector"
	"github.com/kurihiro0119/repo-hub/internal/domain"
	"github.com/kurihiro0119/repo-hub/internal/storage"
)

// Aggregator defines the interface for aggregating repositories across accounts
type Aggregator interface {
	// Aggregate fetches the primary account's repositories followed by each
	// organization's, in configured order. Any failed fetch aborts the whole
	// aggregation and no partial result is returned.
	Aggregate(ctx context.Context, primary string, orgs []string) ([]*domain.Repository, error)

	// Backend returns the hosting backend repositories are fetched from
	Backend() domain.Backend
}

// aggregator implements the Aggregator interface
type aggregator struct {
	collector collector.Collector
	storage   storage.Storage
	logger    *slog.Logger
	now       func() time.Time
}

// NewAggregator creates a new aggregator. store may be nil, in which case
// runs are not recorded.
func NewAggregator(coll collector.Collector, store storage.Storage, logger *slog.Logger) Aggregator {
	return &aggregator{
		collector: coll,
		storage:   store,
		logger:    logger,
		now:       time.Now,
	}
}

func (a *aggregator) Backend() domain.Backend {
	return a.collector.Backend()
}

// Aggregate fetches accounts strictly one after another; result order
// depends on it.
func (a *aggregator) Aggregate(ctx context.Context, primary string, orgs []string) ([]*domain.Repository, error) {
	run := &domain.AggregationRun{
		ID:        uuid.New().String(),
		Backend:   a.collector.Backend(),
		Primary:   primary,
		Orgs:      append([]string{}, orgs...),
		StartedAt: a.now(),
	}

	accounts := append([]string{primary}, orgs...)
	repos := []*domain.Repository{}

	for _, account := range accounts {
		fetched, err := a.collector.GetRepositories(ctx, account)
		if err != nil {
			err = fmt.Errorf("failed to fetch repositories for %s: %w", account, err)
			a.logger.Error("aggregation aborted",
				slog.String("run_id", run.ID),
				slog.String("account", account),
				slog.String("error", err.Error()),
			)
			run.Status = domain.RunStatusFailed
			run.Error = err.Error()
			a.record(ctx, run)
			return nil, err
		}

		a.logger.Debug("fetched repositories",
			slog.String("run_id", run.ID),
			slog.String("account", account),
			slog.Int("count", len(fetched)),
		)
		repos = append(repos, fetched...)
	}

	run.Status = domain.RunStatusCompleted
	run.RepoCount = len(repos)
	a.record(ctx, run)

	a.logger.Info("aggregation completed",
		slog.String("run_id", run.ID),
		slog.String("backend", run.Backend.String()),
		slog.Int("accounts", len(accounts)),
		slog.Int("repositories", len(repos)),
	)

	return repos, nil
}

// record stores the finished run; storage failures never fail the aggregation
func (a *aggregator) record(ctx context.Context, run *domain.AggregationRun) {
	run.FinishedAt = a.now()
	if a.storage == nil {
		return
	}

	// The request context may already be cancelled when the run failed on it.
	if err := a.storage.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		a.logger.Warn("failed to record aggregation run",
			slog.String("run_id", run.ID),
			slog.String("error", err.Error()),
		)
	}
}
