package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/repo-hub/internal/config"
	"github.com/kurihiro0119/repo-hub/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadHub(t *testing.T) {
	t.Run("valid settings", func(t *testing.T) {
		path := writeFile(t, "hub.toml", `
name = "alice"
email = "alice@example.com"
orgs = ["acme", "wonder"]
`)
		hub, err := config.LoadHub(path)
		require.NoError(t, err)
		assert.Equal(t, "alice", hub.Name)
		assert.Equal(t, "alice@example.com", hub.Email)
		assert.Equal(t, []string{"acme", "wonder"}, hub.Orgs)
	})

	t.Run("empty orgs", func(t *testing.T) {
		path := writeFile(t, "hub.toml", "name = \"alice\"\nemail = \"a@b.c\"\norgs = []\n")
		hub, err := config.LoadHub(path)
		require.NoError(t, err)
		assert.Empty(t, hub.Orgs)
	})

	t.Run("file without extension is read as TOML", func(t *testing.T) {
		path := writeFile(t, "hub", "name = \"alice\"\nemail = \"a@b.c\"\norgs = [\"acme\"]\n")
		hub, err := config.LoadHub(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"acme"}, hub.Orgs)
	})

	testCases := []struct {
		name      string
		content   string
		wantField string
	}{
		{name: "missing name", content: "email = \"a@b.c\"\norgs = []\n", wantField: "name"},
		{name: "missing email", content: "name = \"alice\"\norgs = []\n", wantField: "email"},
		{name: "missing orgs", content: "name = \"alice\"\nemail = \"a@b.c\"\n", wantField: "orgs"},
		{name: "name not a string", content: "name = 42\nemail = \"a@b.c\"\norgs = []\n", wantField: "name"},
		{name: "orgs not an array", content: "name = \"alice\"\nemail = \"a@b.c\"\norgs = \"acme\"\n", wantField: "orgs"},
		{name: "org not a string", content: "name = \"alice\"\nemail = \"a@b.c\"\norgs = [\"acme\", 7]\n", wantField: "orgs[1]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "hub.toml", tc.content)
			_, err := config.LoadHub(path)
			require.Error(t, err)

			var cfgErr *config.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.wantField, cfgErr.Field)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadHub(filepath.Join(t.TempDir(), "nope.toml"))
		var cfgErr *config.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"BACKEND", "HUB_CONFIG", "STORAGE_TYPE", "API_PORT", "REQUEST_TIMEOUT"} {
			t.Setenv(key, "")
		}

		cfg, err := config.Load()
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "github", cfg.Backend)
		assert.Equal(t, domain.GitHub, cfg.AggregationBackend())
		assert.Equal(t, "hub.toml", cfg.HubPath)
		assert.Equal(t, "none", cfg.StorageType)
		assert.Equal(t, "8000", cfg.APIPort)
		assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("BACKEND", "gitlab")
		t.Setenv("REQUEST_TIMEOUT", "3s")
		t.Setenv("STORAGE_TYPE", "sqlite")

		cfg, err := config.Load()
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, domain.GitLab, cfg.AggregationBackend())
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name      string
		env       map[string]string
		wantField string
	}{
		{name: "unknown backend", env: map[string]string{"BACKEND": "svn"}, wantField: "BACKEND"},
		{name: "bad timeout", env: map[string]string{"REQUEST_TIMEOUT": "soon"}, wantField: "REQUEST_TIMEOUT"},
		{name: "negative timeout", env: map[string]string{"REQUEST_TIMEOUT": "-1s"}, wantField: "REQUEST_TIMEOUT"},
		{name: "unknown storage", env: map[string]string{"STORAGE_TYPE": "redis"}, wantField: "STORAGE_TYPE"},
		{name: "postgres without url", env: map[string]string{"STORAGE_TYPE": "postgres", "POSTGRES_URL": ""}, wantField: "POSTGRES_URL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			require.NoError(t, err)

			err = cfg.Validate()
			var cfgErr *config.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.wantField, cfgErr.Field)
		})
	}
}

func TestResolveCredentials(t *testing.T) {
	lookup := func(env map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}
	}

	t.Run("only present variables resolve", func(t *testing.T) {
		creds := config.ResolveCredentials(lookup(map[string]string{"GITHUB_TOKEN": "gh"}))

		token, err := creds.Token(domain.GitHub)
		require.NoError(t, err)
		assert.Equal(t, "gh", token)

		_, err = creds.Token(domain.GitLab)
		assert.ErrorIs(t, err, domain.ErrMissingToken)
	})

	t.Run("empty value counts as set", func(t *testing.T) {
		creds := config.ResolveCredentials(lookup(map[string]string{"GITLAB_TOKEN": ""}))
		_, err := creds.Token(domain.GitLab)
		assert.NoError(t, err)
	})

	t.Run("process environment", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "from-env")
		token, err := config.EnvCredentials().Token(domain.GitHub)
		require.NoError(t, err)
		assert.Equal(t, "from-env", token)
	})
}
