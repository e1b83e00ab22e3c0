package github

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	sharedOnce   sync.Once
	sharedClient *GitHubClient
	sharedErr    error
)

// Shared returns the process-wide client, resolving the token on first
// use. A failed resolution is cached: later calls return the same
// error instead of retrying.
func Shared(apiURL, graphqlURL string) (*GitHubClient, error) {
	sharedOnce.Do(func() {
		token, err := resolveToken()
		if err != nil {
			sharedErr = err
			return
		}
		sharedClient = NewClient(token, apiURL, graphqlURL)
	})
	return sharedClient, sharedErr
}

// resolveToken finds a GitHub token: GH_TOKEN then GITHUB_TOKEN, in
// the gh CLI's order of precedence (a .env file in the working
// directory is honored), then the gh CLI's stored credentials.
func resolveToken() (string, error) {
	_ = godotenv.Load()
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	out, err := exec.Command("gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("no GitHub token found: set GITHUB_TOKEN or log in with 'gh auth login'")
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", fmt.Errorf("no GitHub token found: set GITHUB_TOKEN or log in with 'gh auth login'")
	}
	return token, nil
}
