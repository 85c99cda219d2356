package config

import (
	"os"

	"github.com/kurihiro0119/repo-hub/internal/domain"
)

// ResolveCredentials reads the access token of every backend through lookup.
// A backend is left out when its variable is absent; an empty value counts
// as set.
func ResolveCredentials(lookup func(string) (string, bool)) domain.Credentials {
	creds := domain.Credentials{}
	for _, b := range domain.Backends() {
		if token, ok := lookup(b.TokenEnv()); ok {
			creds[b] = token
		}
	}
	return creds
}

// EnvCredentials resolves credentials from the process environment
func EnvCredentials() domain.Credentials {
	return ResolveCredentials(os.LookupEnv)
}
