package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField is returned when a repository payload lacks a required field
var ErrMissingField = errors.New("missing required field")

// Repository represents a hosted code repository as returned by a backend
type Repository struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	HTMLURL         string   `json:"html_url"`
	Language        *string  `json:"language"`
	Description     *string  `json:"description"`
	License         *License `json:"license"`
	Private         bool     `json:"private"`
	Owner           Owner    `json:"owner"`
	Homepage        *string  `json:"homepage"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	OpenIssuesCount int      `json:"open_issues_count"`
	// Timestamps are kept as the ISO-8601 strings the backend sent.
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Owner represents the account owning a repository
type Owner struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// License holds the SPDX identifier of a repository license
type License struct {
	SPDXID *string `json:"spdx_id"`
}

// Visibility returns "private" or "public"
func (r *Repository) Visibility() string {
	if r.Private {
		return "private"
	}
	return "public"
}

// LicenseID returns the SPDX identifier or an empty string
func (r *Repository) LicenseID() string {
	if r.License == nil || r.License.SPDXID == nil {
		return ""
	}
	return *r.License.SPDXID
}

// DescriptionText returns the description or an empty string
func (r *Repository) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// HomepageURL returns the homepage or an empty string
func (r *Repository) HomepageURL() string {
	if r.Homepage == nil {
		return ""
	}
	return *r.Homepage
}

type repositoryPayload struct {
	ID              *int64   `json:"id"`
	Name            *string  `json:"name"`
	FullName        *string  `json:"full_name"`
	HTMLURL         *string  `json:"html_url"`
	Language        *string  `json:"language"`
	Description     *string  `json:"description"`
	License         *License `json:"license"`
	Private         *bool    `json:"private"`
	Owner           *Owner   `json:"owner"`
	Homepage        *string  `json:"homepage"`
	StargazersCount *int     `json:"stargazers_count"`
	ForksCount      *int     `json:"forks_count"`
	OpenIssuesCount *int     `json:"open_issues_count"`
	CreatedAt       *string  `json:"created_at"`
	UpdatedAt       *string  `json:"updated_at"`
}

// UnmarshalJSON decodes a repository and rejects payloads missing a required field.
func (r *Repository) UnmarshalJSON(data []byte) error {
	var p repositoryPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	required := []struct {
		name    string
		present bool
	}{
		{"id", p.ID != nil},
		{"name", p.Name != nil},
		{"full_name", p.FullName != nil},
		{"html_url", p.HTMLURL != nil},
		{"private", p.Private != nil},
		{"owner", p.Owner != nil},
		{"stargazers_count", p.StargazersCount != nil},
		{"forks_count", p.ForksCount != nil},
		{"open_issues_count", p.OpenIssuesCount != nil},
		{"created_at", p.CreatedAt != nil},
		{"updated_at", p.UpdatedAt != nil},
	}
	for _, f := range required {
		if !f.present {
			return fmt.Errorf("repository: %w %q", ErrMissingField, f.name)
		}
	}

	*r = Repository{
		ID:              *p.ID,
		Name:            *p.Name,
		FullName:        *p.FullName,
		HTMLURL:         *p.HTMLURL,
		Language:        p.Language,
		Description:     p.Description,
		License:         p.License,
		Private:         *p.Private,
		Owner:           *p.Owner,
		Homepage:        p.Homepage,
		StargazersCount: *p.StargazersCount,
		ForksCount:      *p.ForksCount,
		OpenIssuesCount: *p.OpenIssuesCount,
		CreatedAt:       *p.CreatedAt,
		UpdatedAt:       *p.UpdatedAt,
	}
	return nil
}

type ownerPayload struct {
	Login     *string `json:"login"`
	ID        *int64  `json:"id"`
	AvatarURL *string `json:"avatar_url"`
	HTMLURL   *string `json:"html_url"`
}

// UnmarshalJSON decodes an owner; all four fields are required.
func (o *Owner) UnmarshalJSON(data []byte) error {
	var p ownerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	switch {
	case p.Login == nil:
		return fmt.Errorf("owner: %w %q", ErrMissingField, "login")
	case p.ID == nil:
		return fmt.Errorf("owner: %w %q", ErrMissingField, "id")
	case p.AvatarURL == nil:
		return fmt.Errorf("owner: %w %q", ErrMissingField, "avatar_url")
	case p.HTMLURL == nil:
		return fmt.Errorf("owner: %w %q", ErrMissingField, "html_url")
	}

	*o = Owner{
		Login:     *p.Login,
		ID:        *p.ID,
		AvatarURL: *p.AvatarURL,
		HTMLURL:   *p.HTMLURL,
	}
	return nil
}
