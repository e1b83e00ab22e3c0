package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/kilupskalvis/givc/internal/config"
)

// githubRemoteRe matches the owner/repo part of a GitHub remote URL in
// both SSH (git@github.com:owner/repo.git) and HTTPS
// (https://github.com/owner/repo) forms.
var githubRemoteRe = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?$`)

// parseRepo splits an "owner/repo" argument
func parseRepo(s string) (string, string, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", s)
	}
	return parts[0], parts[1], nil
}

// resolveRepo determines the target repository: the -R flag first, then
// the configured default, then the origin remote of the enclosing git
// checkout.
func resolveRepo(cfg *config.Config, repoFlag string) (string, string, error) {
	if repoFlag != "" {
		return parseRepo(repoFlag)
	}
	if cfg.DefaultRepo != "" {
		return parseRepo(cfg.DefaultRepo)
	}
	return originRepo(".")
}

// originRepo extracts owner and repo from the 'origin' remote of the
// git repository enclosing dir.
func originRepo(dir string) (string, string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", fmt.Errorf("no repository given: use -R owner/repo or run inside a GitHub checkout")
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", "", fmt.Errorf("no 'origin' remote found: use -R owner/repo")
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("remote 'origin' has no URL")
	}
	return parseRemoteURL(urls[0])
}

// parseRemoteURL extracts owner and repo from a GitHub remote URL
func parseRemoteURL(url string) (string, string, error) {
	m := githubRemoteRe.FindStringSubmatch(url)
	if m == nil {
		return "", "", fmt.Errorf("remote %q is not a GitHub repository", url)
	}
	return m[1], m[2], nil
}

// issueNumber parses an issue number argument, accepting a leading '#'
func issueNumber(arg string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid issue number %q", arg)
	}
	return n, nil
}

// resolveIssue resolves the repository and issue number for a command,
// exiting with an error message if either cannot be determined.
func resolveIssue(cfg *config.Config, repoFlag, arg string) (string, string, int64) {
	owner, repo, err := resolveRepo(cfg, repoFlag)
	if err != nil {
		exitError("%v", err)
	}

	number, err := issueNumber(arg)
	if err != nil {
		exitError("%v", err)
	}

	return owner, repo, number
}
