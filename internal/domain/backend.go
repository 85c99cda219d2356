package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Backend identifies a repository hosting API
type Backend int

const (
	GitHub Backend = iota
	GitLab
)

var (
	// ErrUnknownBackend is returned when a backend name cannot be parsed
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrMissingToken is returned when no access token was resolved for a backend
	ErrMissingToken = errors.New("access token not set")
)

// Backends lists every supported backend
func Backends() []Backend {
	return []Backend{GitHub, GitLab}
}

// ParseBackend parses a backend name such as "github" or "gitlab"
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "github":
		return GitHub, nil
	case "gitlab":
		return GitLab, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

func (b Backend) String() string {
	switch b {
	case GitHub:
		return "github"
	case GitLab:
		return "gitlab"
	default:
		return "unknown"
	}
}

// BaseURL returns the REST API root of the backend
func (b Backend) BaseURL() string {
	switch b {
	case GitHub:
		return "https://api.github.com"
	case GitLab:
		return "https://gitlab.com/api/v4"
	default:
		return ""
	}
}

// TokenEnv returns the environment variable holding the backend access token
func (b Backend) TokenEnv() string {
	switch b {
	case GitHub:
		return "GITHUB_TOKEN"
	case GitLab:
		return "GITLAB_TOKEN"
	default:
		return ""
	}
}

func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Backend) UnmarshalText(text []byte) error {
	parsed, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Credentials maps each backend to the access token resolved at startup.
// A backend without an entry has no token configured.
type Credentials map[Backend]string

// Token returns the token for the backend or ErrMissingToken
func (c Credentials) Token(b Backend) (string, error) {
	token, ok := c[b]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingToken, b.TokenEnv())
	}
	return token, nil
}
