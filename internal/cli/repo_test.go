package cli

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilupskalvis/givc/internal/config"
)

func TestParseRepo(t *testing.T) {
	owner, repo, err := parseRepo("octocat/hello-world")
	require.NoError(t, err)
	assert.Equal(t, "octocat", owner)
	assert.Equal(t, "hello-world", repo)

	for _, bad := range []string{"", "octocat", "/repo", "owner/"} {
		_, _, err := parseRepo(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		repo  string
	}{
		{"https://github.com/octocat/hello-world.git", "octocat", "hello-world"},
		{"https://github.com/octocat/hello-world", "octocat", "hello-world"},
		{"git@github.com:octocat/hello-world.git", "octocat", "hello-world"},
		{"ssh://git@github.com/octocat/hello-world.git", "octocat", "hello-world"},
	}
	for _, tt := range tests {
		owner, repo, err := parseRemoteURL(tt.url)
		require.NoError(t, err, "url %s", tt.url)
		assert.Equal(t, tt.owner, owner)
		assert.Equal(t, tt.repo, repo)
	}

	_, _, err := parseRemoteURL("https://gitlab.com/octocat/hello-world.git")
	assert.Error(t, err)
}

func TestIssueNumber(t *testing.T) {
	n, err := issueNumber("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = issueNumber("#7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := issueNumber(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestResolveRepo_FlagAndDefault(t *testing.T) {
	cfg := &config.Config{DefaultRepo: "octocat/from-config"}

	owner, repo, err := resolveRepo(cfg, "octocat/from-flag")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", repo)
	assert.Equal(t, "octocat", owner)

	owner, repo, err = resolveRepo(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "from-config", repo)
	assert.Equal(t, "octocat", owner)
}

func TestOriginRepo(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:octocat/hello-world.git"},
	})
	require.NoError(t, err)

	owner, name, err := originRepo(dir)
	require.NoError(t, err)
	assert.Equal(t, "octocat", owner)
	assert.Equal(t, "hello-world", name)

	// DetectDotGit walks up from subdirectories.
	sub := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(sub, 0755))
	owner, name, err = originRepo(sub)
	require.NoError(t, err)
	assert.Equal(t, "octocat", owner)
	assert.Equal(t, "hello-world", name)
}

func TestOriginRepo_NoRemote(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, _, err = originRepo(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "origin")
}

func TestOriginRepo_NotARepo(t *testing.T) {
	_, _, err := originRepo(t.TempDir())
	require.Error(t, err)
}
