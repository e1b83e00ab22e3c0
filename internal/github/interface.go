// Package github talks to the GitHub REST and GraphQL APIs on behalf
// of the sync engine.
package github

import (
	"context"

	"github.com/kilupskalvis/givc/internal/models"
)

// Client defines the contract for GitHub operations.
// This interface enables mocking for testing the core package.
type Client interface {
	// Reads
	GetIssue(ctx context.Context, owner, repo string, number int64) (*models.Issue, error)
	GetComments(ctx context.Context, owner, repo string, number int64) ([]models.Comment, error)
	GetCurrentUser(ctx context.Context) (string, error)

	// Issue mutations
	UpdateIssueBody(ctx context.Context, owner, repo string, number int64, body string) error
	UpdateIssueTitle(ctx context.Context, owner, repo string, number int64, title string) error
	AddLabels(ctx context.Context, owner, repo string, number int64, labels []string) error
	RemoveLabel(ctx context.Context, owner, repo string, number int64, label string) error

	// Comment mutations
	CreateComment(ctx context.Context, owner, repo string, number int64, body string) (*models.Comment, error)
	UpdateComment(ctx context.Context, owner, repo string, commentID int64, body string) error
	DeleteComment(ctx context.Context, owner, repo string, commentID int64) error
}

// Verify that *GitHubClient implements Client at compile time
var _ Client = (*GitHubClient)(nil)
