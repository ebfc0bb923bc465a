package config

import (
	"os"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/pkg"
)

// GithubToken resolves the GitHub token from the environment first, then
// from the store.
func GithubToken(s *Store) (string, error) {
	if tok := os.Getenv(pkg.GithubTokenEnv); tok != "" {
		return tok, nil
	}
	if s != nil {
		if tok, ok := s.Get(pkg.GithubTokenKey); ok && tok != "" {
			return tok, nil
		}
	}
	return "", &apierr.ConfigError{
		Key:  pkg.GithubTokenKey,
		Hint: `GitHub token not set. Use "devdash config set --github-token <token>" to set it`,
	}
}

// Lookup returns the first non-empty value among the explicit flag value and
// the stored key.
func Lookup(s *Store, explicit, key string) string {
	if explicit != "" {
		return explicit
	}
	if s == nil {
		return ""
	}
	v, _ := s.Get(key)
	return v
}
