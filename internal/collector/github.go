package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/kurihiro0119/repo-hub/internal/domain"
	apperrors "github.com/kurihiro0119/repo-hub/internal/errors"
)

// githubCollector implements Collector using the GitHub REST API
type githubCollector struct {
	client  *github.Client
	timeout time.Duration
}

// NewGitHubCollector creates a GitHub collector rooted at baseURL.
// baseURL is https://api.github.com in production; tests and GitHub
// Enterprise installs point it elsewhere.
func NewGitHubCollector(baseURL, token string, timeout time.Duration) (Collector, error) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = timeout

	client := github.NewClient(tc)
	client.UserAgent = userAgent

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("invalid GitHub base URL %q", baseURL), err)
	}
	client.BaseURL = u

	return &githubCollector{
		client:  client,
		timeout: timeout,
	}, nil
}

func (c *githubCollector) Backend() domain.Backend {
	return domain.GitHub
}

// GetRepositories issues GET users/{account}/repos and decodes the first page.
func (c *githubCollector) GetRepositories(ctx context.Context, account string) ([]*domain.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.client.NewRequest(http.MethodGet, fmt.Sprintf("users/%s/repos", url.PathEscape(account)), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build repositories request", err)
	}

	var repos []*domain.Repository
	if _, err := c.client.Do(ctx, req, &repos); err != nil {
		return nil, c.classify(account, err)
	}

	if err := checkRepositories(account, repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *githubCollector) classify(account string, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse

	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return apperrors.NewRateLimitedError(fmt.Sprintf("GitHub rate limit hit while listing repositories of %s", account), err)
	case errors.As(err, &respErr):
		return apperrors.NewUpstreamError(
			fmt.Sprintf("GitHub returned status %d for repositories of %s", respErr.Response.StatusCode, account), err)
	case isTimeout(err):
		return apperrors.NewTimeoutError(fmt.Sprintf("timed out listing repositories of %s", account), err)
	case isDecodeError(err):
		return apperrors.NewDecodeError(fmt.Sprintf("unexpected repositories payload for %s", account), err)
	default:
		return apperrors.NewUpstreamError(fmt.Sprintf("failed to list repositories of %s", account), err)
	}
}
