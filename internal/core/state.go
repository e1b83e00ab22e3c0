package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kilupskalvis/givc/internal/github"
	"github.com/kilupskalvis/givc/internal/models"
	"github.com/kilupskalvis/givc/internal/storage"
)

// LocalState is the cached copy of an issue as read from disk.
type LocalState struct {
	Meta     *models.IssueMetadata
	Body     string
	Comments []storage.LocalComment
}

// RemoteState is a freshly fetched issue and its comments.
type RemoteState struct {
	Issue    *models.Issue
	Comments []models.Comment
}

// LoadLocal reads the cached snapshot for an issue.
func LoadLocal(st *storage.IssueStorage) (*LocalState, error) {
	meta, err := st.ReadMetadata()
	if err != nil {
		return nil, err
	}
	body, err := st.ReadBody()
	if err != nil {
		return nil, err
	}
	comments, err := st.ReadComments()
	if err != nil {
		return nil, err
	}
	return &LocalState{Meta: meta, Body: body, Comments: comments}, nil
}

// FetchRemote retrieves the issue and its comments. The two reads are
// independent, so they run concurrently.
func FetchRemote(ctx context.Context, client github.Client, owner, repo string, number int64) (*RemoteState, error) {
	var remote RemoteState

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		issue, err := client.GetIssue(ctx, owner, repo, number)
		if err != nil {
			return fmt.Errorf("fetching issue: %w", err)
		}
		remote.Issue = issue
		return nil
	})
	g.Go(func() error {
		comments, err := client.GetComments(ctx, owner, repo, number)
		if err != nil {
			return fmt.Errorf("fetching comments: %w", err)
		}
		remote.Comments = comments
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &remote, nil
}
