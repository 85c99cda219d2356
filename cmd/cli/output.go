package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/kurihiro0119/repo-hub/internal/domain"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRepositories(w io.Writer, repos []*domain.Repository) {
	fmt.Fprintf(w, "\nRepositories: %d\n\n", len(repos))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Repository", "Visibility", "Language", "License", "Stars", "Forks", "Issues", "Updated"})
	for _, r := range repos {
		table.Append([]string{
			r.FullName,
			r.Visibility(),
			valueOrDash(r.Language),
			dashIfEmpty(r.LicenseID()),
			strconv.Itoa(r.StargazersCount),
			strconv.Itoa(r.ForksCount),
			strconv.Itoa(r.OpenIssuesCount),
			r.UpdatedAt,
		})
	}
	table.Render()
}

func printRuns(w io.Writer, runs []*domain.AggregationRun) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Started", "Backend", "Primary", "Orgs", "Status", "Repos", "Duration", "Error"})
	for _, r := range runs {
		table.Append([]string{
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Backend.String(),
			r.Primary,
			strconv.Itoa(len(r.Orgs)),
			string(r.Status),
			strconv.Itoa(r.RepoCount),
			r.Duration().Round(time.Millisecond).String(),
			r.Error,
		})
	}
	table.Render()
}

func printSearch(w io.Writer, query string, backend domain.Backend, url string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Backend", backend.String()})
	table.Append([]string{"Base URL", backend.BaseURL()})
	table.Append([]string{"Query", query})
	table.Append([]string{"Results", dashIfEmpty(url)})
	table.Render()
}

func valueOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return dashIfEmpty(*s)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
