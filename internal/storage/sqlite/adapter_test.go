package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/repo-hub/internal/domain"
	"github.com/kurihiro0119/repo-hub/internal/storage/sqlite"
)

func TestSQLiteStorage_Runs(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := &domain.AggregationRun{
		ID:         "run-1",
		Backend:    domain.GitHub,
		Primary:    "alice",
		Orgs:       []string{"acme", "wonder"},
		RepoCount:  6,
		Status:     domain.RunStatusCompleted,
		StartedAt:  base,
		FinishedAt: base.Add(800 * time.Millisecond),
	}
	newer := &domain.AggregationRun{
		ID:         "run-2",
		Backend:    domain.GitLab,
		Primary:    "alice",
		Orgs:       []string{},
		Status:     domain.RunStatusFailed,
		Error:      "UPSTREAM_ERROR: boom",
		StartedAt:  base.Add(time.Hour),
		FinishedAt: base.Add(time.Hour + time.Second),
	}

	require.NoError(t, store.SaveRun(ctx, older))
	require.NoError(t, store.SaveRun(ctx, newer))

	t.Run("newest first", func(t *testing.T) {
		runs, err := store.GetRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)

		assert.Equal(t, "run-2", runs[0].ID)
		assert.Equal(t, domain.GitLab, runs[0].Backend)
		assert.Equal(t, domain.RunStatusFailed, runs[0].Status)
		assert.Equal(t, "UPSTREAM_ERROR: boom", runs[0].Error)
		assert.Empty(t, runs[0].Orgs)

		assert.Equal(t, "run-1", runs[1].ID)
		assert.Equal(t, []string{"acme", "wonder"}, runs[1].Orgs)
		assert.Equal(t, 6, runs[1].RepoCount)
		assert.True(t, runs[1].StartedAt.Equal(base), "started_at = %v", runs[1].StartedAt)
		assert.Equal(t, 800*time.Millisecond, runs[1].Duration())
	})

	t.Run("limit", func(t *testing.T) {
		runs, err := store.GetRuns(ctx, 1)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "run-2", runs[0].ID)
	})

	t.Run("saving the same run again replaces it", func(t *testing.T) {
		older.RepoCount = 7
		require.NoError(t, store.SaveRun(ctx, older))

		runs, err := store.GetRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, 7, runs[1].RepoCount)
	})
}

func TestSQLiteStorage_Empty(t *testing.T) {
	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.GetRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NotNil(t, runs)
}
