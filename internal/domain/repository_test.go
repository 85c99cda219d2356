package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/repo-hub/internal/domain"
)

const fullRepository = `{
	"id": 1296269,
	"name": "Hello-World",
	"full_name": "octocat/Hello-World",
	"html_url": "https://github.com/octocat/Hello-World",
	"language": "Go",
	"description": "This your first repo!",
	"license": {"key": "mit", "spdx_id": "MIT"},
	"private": false,
	"owner": {
		"login": "octocat",
		"id": 1,
		"avatar_url": "https://github.com/images/error/octocat_happy.gif",
		"html_url": "https://github.com/octocat",
		"type": "User"
	},
	"homepage": "https://github.com",
	"stargazers_count": 80,
	"forks_count": 9,
	"open_issues_count": 2,
	"watchers_count": 80,
	"created_at": "2011-01-26T19:01:12Z",
	"updated_at": "2011-01-26T19:14:43Z"
}`

func TestRepository_UnmarshalJSON(t *testing.T) {
	t.Run("decodes every field and ignores extras", func(t *testing.T) {
		var repo domain.Repository
		require.NoError(t, json.Unmarshal([]byte(fullRepository), &repo))

		assert.Equal(t, int64(1296269), repo.ID)
		assert.Equal(t, "Hello-World", repo.Name)
		assert.Equal(t, "octocat/Hello-World", repo.FullName)
		assert.Equal(t, "https://github.com/octocat/Hello-World", repo.HTMLURL)
		require.NotNil(t, repo.Language)
		assert.Equal(t, "Go", *repo.Language)
		assert.Equal(t, "MIT", repo.LicenseID())
		assert.Equal(t, "https://github.com", repo.HomepageURL())
		assert.Equal(t, "public", repo.Visibility())
		assert.Equal(t, "octocat", repo.Owner.Login)
		assert.Equal(t, int64(1), repo.Owner.ID)
		assert.Equal(t, 80, repo.StargazersCount)
		assert.Equal(t, 9, repo.ForksCount)
		assert.Equal(t, 2, repo.OpenIssuesCount)
		assert.Equal(t, "2011-01-26T19:01:12Z", repo.CreatedAt)
		assert.Equal(t, "2011-01-26T19:14:43Z", repo.UpdatedAt)
	})

	t.Run("optional fields may be null or absent", func(t *testing.T) {
		payload := `{
			"id": 7, "name": "bare", "full_name": "alice/bare",
			"html_url": "https://github.com/alice/bare",
			"language": null, "license": null, "private": true,
			"owner": {"login": "alice", "id": 3, "avatar_url": "a", "html_url": "h"},
			"stargazers_count": 0, "forks_count": 0, "open_issues_count": 0,
			"created_at": "2020-01-01T00:00:00Z", "updated_at": "2020-01-02T00:00:00Z"
		}`

		var repo domain.Repository
		require.NoError(t, json.Unmarshal([]byte(payload), &repo))
		assert.Nil(t, repo.Language)
		assert.Nil(t, repo.Description)
		assert.Nil(t, repo.Homepage)
		assert.Equal(t, "", repo.DescriptionText())
		assert.Equal(t, "", repo.HomepageURL())
		assert.Equal(t, "", repo.LicenseID())
		assert.Equal(t, "private", repo.Visibility())
	})

	t.Run("empty description and homepage", func(t *testing.T) {
		payload := `{
			"id": 8, "name": "blank", "full_name": "alice/blank",
			"html_url": "https://github.com/alice/blank",
			"description": "", "homepage": "", "private": false,
			"owner": {"login": "alice", "id": 3, "avatar_url": "a", "html_url": "h"},
			"stargazers_count": 0, "forks_count": 0, "open_issues_count": 0,
			"created_at": "2020-01-01T00:00:00Z", "updated_at": "2020-01-02T00:00:00Z"
		}`

		var repo domain.Repository
		require.NoError(t, json.Unmarshal([]byte(payload), &repo))
		require.NotNil(t, repo.Description)
		require.NotNil(t, repo.Homepage)
		assert.Equal(t, "", repo.DescriptionText())
		assert.Equal(t, "", repo.HomepageURL())
	})

	t.Run("license without spdx id", func(t *testing.T) {
		payload := `{
			"id": 7, "name": "x", "full_name": "a/x", "html_url": "u",
			"license": {"spdx_id": null}, "private": false,
			"owner": {"login": "a", "id": 3, "avatar_url": "a", "html_url": "h"},
			"stargazers_count": 0, "forks_count": 0, "open_issues_count": 0,
			"created_at": "c", "updated_at": "u"
		}`

		var repo domain.Repository
		require.NoError(t, json.Unmarshal([]byte(payload), &repo))
		require.NotNil(t, repo.License)
		assert.Equal(t, "", repo.LicenseID())
	})

	t.Run("missing required field", func(t *testing.T) {
		payload := `{"id": 1, "name": "x", "full_name": "a/x", "html_url": "u", "private": false,
			"owner": {"login": "a", "id": 3, "avatar_url": "a", "html_url": "h"},
			"stargazers_count": 0, "forks_count": 0, "open_issues_count": 0,
			"created_at": "c"}`

		var repo domain.Repository
		err := json.Unmarshal([]byte(payload), &repo)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingField)
		assert.Contains(t, err.Error(), "updated_at")
	})

	t.Run("missing owner field", func(t *testing.T) {
		payload := `{"id": 1, "name": "x", "full_name": "a/x", "html_url": "u", "private": false,
			"owner": {"login": "a", "id": 3, "html_url": "h"},
			"stargazers_count": 0, "forks_count": 0, "open_issues_count": 0,
			"created_at": "c", "updated_at": "u"}`

		var repo domain.Repository
		err := json.Unmarshal([]byte(payload), &repo)
		assert.ErrorIs(t, err, domain.ErrMissingField)
		assert.Contains(t, err.Error(), "avatar_url")
	})

	t.Run("wrong type", func(t *testing.T) {
		payload := `{"id": "one", "name": "x"}`

		var repo domain.Repository
		err := json.Unmarshal([]byte(payload), &repo)
		require.Error(t, err)
		var typeErr *json.UnmarshalTypeError
		assert.ErrorAs(t, err, &typeErr)
	})

	t.Run("round trip through the JSON API shape", func(t *testing.T) {
		var repo domain.Repository
		require.NoError(t, json.Unmarshal([]byte(fullRepository), &repo))

		encoded, err := json.Marshal(&repo)
		require.NoError(t, err)

		var decoded domain.Repository
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, repo, decoded)
	})
}
