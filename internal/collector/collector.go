package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/kurihiro0119/repo-hub/internal/domain"
	apperrors "github.com/kurihiro0119/repo-hub/internal/errors"
)

// userAgent identifies repo-hub to the hosting APIs, which reject anonymous agents
const userAgent = "repo-hub"

// Collector defines the interface for fetching repositories from a hosting backend
type Collector interface {
	// GetRepositories retrieves the repositories listed under a user or organization account
	GetRepositories(ctx context.Context, account string) ([]*domain.Repository, error)

	// Backend returns the hosting backend the collector talks to
	Backend() domain.Backend
}

// New creates the collector for a backend using its resolved token.
// Every outbound call is bounded by timeout.
func New(backend domain.Backend, creds domain.Credentials, timeout time.Duration) (Collector, error) {
	token, err := creds.Token(backend)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("no access token for %s", backend), err)
	}

	switch backend {
	case domain.GitHub:
		return NewGitHubCollector(backend.BaseURL(), token, timeout)
	case domain.GitLab:
		return NewRESTCollector(backend, backend.BaseURL(), token, timeout), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownBackend, backend)
	}
}

// checkRepositories rejects a body that decoded to null or held null entries
func checkRepositories(account string, repos []*domain.Repository) error {
	if repos == nil {
		return apperrors.NewDecodeError(fmt.Sprintf("repositories of %s: response is not a JSON array", account), nil)
	}
	for i, repo := range repos {
		if repo == nil {
			return apperrors.NewDecodeError(fmt.Sprintf("repositories of %s: entry %d is null", account, i), nil)
		}
	}
	return nil
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, domain.ErrMissingField) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
