package domain

import "time"

// RunStatus is the outcome of an aggregation run
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// AggregationRun records one pass of the repository aggregation
type AggregationRun struct {
	ID         string    `json:"id"`
	Backend    Backend   `json:"backend"`
	Primary    string    `json:"primary"`
	Orgs       []string  `json:"orgs"`
	RepoCount  int       `json:"repo_count"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns how long the run took
func (r *AggregationRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
