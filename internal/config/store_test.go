package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/pkg"
)

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Empty(t, s.Keys())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	s, err := Load(path)
	require.NoError(t, err)

	s.Set("github_token", "abc")
	s.Set("jenkins_url", "https://ci.example.com")
	require.NoError(t, s.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"github_token", "jenkins_url"}, reloaded.Keys())
	v, ok := reloaded.Get("github_token")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	// only the store file is left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveLastWriterWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	a, err := Load(path)
	require.NoError(t, err)
	b, err := Load(path)
	require.NoError(t, err)

	a.Set("github_token", "from-a")
	require.NoError(t, a.Save())
	b.Set("github_token", "from-b")
	require.NoError(t, b.Save())

	s, err := Load(path)
	require.NoError(t, err)
	v, _ := s.Get("github_token")
	assert.Equal(t, "from-b", v)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("github_token: [unclosed"), 0o600))
	_, err := Load(path)
	assert.True(t, apierr.IsConfig(err))
}

func TestDefaultPathPrefersLegacyFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	legacy := filepath.Join(home, legacyFileName)
	require.NoError(t, os.WriteFile(legacy, []byte("github_token: x\n"), 0o600))

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, legacy, p)
}

func TestGithubToken(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	t.Setenv(pkg.GithubTokenEnv, "")
	_, err = GithubToken(s)
	assert.True(t, apierr.IsConfig(err))
	assert.Contains(t, err.Error(), "devdash config set --github-token")

	s.Set(pkg.GithubTokenKey, "stored")
	tok, err := GithubToken(s)
	require.NoError(t, err)
	assert.Equal(t, "stored", tok)

	t.Setenv(pkg.GithubTokenEnv, "from-env")
	tok, err = GithubToken(s)
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok)
}

func TestLookup(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	s.Set("gitlab_url", "https://gitlab.example.com")

	assert.Equal(t, "https://flag", Lookup(s, "https://flag", "gitlab_url"))
	assert.Equal(t, "https://gitlab.example.com", Lookup(s, "", "gitlab_url"))
	assert.Equal(t, "", Lookup(nil, "", "gitlab_url"))
}
