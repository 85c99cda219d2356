package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kurihiro0119/repo-hub/internal/domain"
	apperrors "github.com/kurihiro0119/repo-hub/internal/errors"
)

// restCollector implements Collector over a plain REST API that follows the
// users/{account}/repos layout. It serves GitLab, which has no client
// library in this module.
type restCollector struct {
	backend    domain.Backend
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration
}

// NewRESTCollector creates a collector for backend rooted at baseURL
func NewRESTCollector(backend domain.Backend, baseURL, token string, timeout time.Duration) Collector {
	return &restCollector{
		backend: backend,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

func (c *restCollector) Backend() domain.Backend {
	return c.backend
}

// GetRepositories issues GET {baseURL}/users/{account}/repos
func (c *restCollector) GetRepositories(ctx context.Context, account string) ([]*domain.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/users/%s/repos", c.baseURL, url.PathEscape(account))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build repositories request", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.NewTimeoutError(fmt.Sprintf("timed out listing repositories of %s", account), err)
		}
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("failed to list repositories of %s", account), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		statusErr := fmt.Errorf("%s API returned status %d: %s", c.backend, resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, apperrors.NewRateLimitedError(fmt.Sprintf("%s rate limit hit while listing repositories of %s", c.backend, account), statusErr)
		}
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("%s returned status %d for repositories of %s", c.backend, resp.StatusCode, account), statusErr)
	}

	var repos []*domain.Repository
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		if isTimeout(err) {
			return nil, apperrors.NewTimeoutError(fmt.Sprintf("timed out reading repositories of %s", account), err)
		}
		return nil, apperrors.NewDecodeError(fmt.Sprintf("unexpected repositories payload for %s", account), err)
	}

	if err := checkRepositories(account, repos); err != nil {
		return nil, err
	}
	return repos, nil
}
