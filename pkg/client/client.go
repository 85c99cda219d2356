package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kurihiro0119/repo-hub/internal/domain"
)

// Client is the API client for repo-hub
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is an error response returned by the server
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %d %s - %s", e.StatusCode, e.Code, e.Message)
}

// SearchResponse is the server's answer to a search request
type SearchResponse struct {
	Query       string         `json:"query"`
	Backend     domain.Backend `json:"backend"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
}

// GetRepositories retrieves the aggregated repositories
func (c *Client) GetRepositories(ctx context.Context) ([]*domain.Repository, error) {
	var response struct {
		Data []*domain.Repository `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/repos", nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetRuns retrieves the most recent aggregation runs
func (c *Client) GetRuns(ctx context.Context, limit int) ([]*domain.AggregationRun, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var response struct {
		Data []*domain.AggregationRun `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/runs", params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Search builds a search query against the given backend
func (c *Client) Search(ctx context.Context, backend domain.Backend, q string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("backend", backend.String())
	params.Set("q", q)

	var response struct {
		Data *SearchResponse `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/search", params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
	}
}
