package core

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/givc/internal/github"
	"github.com/kilupskalvis/givc/internal/models"
	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/kilupskalvis/givc/internal/store"
)

// PullOptions configures a pull operation.
type PullOptions struct {
	Owner  string
	Repo   string
	Number int64
	Force  bool
}

// PullResult contains the outcome of a pull operation.
type PullResult struct {
	Issue        *models.Issue
	CommentCount int
}

// Pull downloads an issue and its comments into local files. A cached
// copy with unpushed edits makes it refuse unless opts.Force is set.
// The issue directory is recreated from scratch, so comments deleted
// on GitHub disappear locally too.
func Pull(ctx context.Context, client github.Client, st *storage.IssueStorage, journal *store.Store, opts PullOptions) (*PullResult, error) {
	remote, err := FetchRemote(ctx, client, opts.Owner, opts.Repo, opts.Number)
	if err != nil {
		return nil, err
	}

	op := models.SyncPull
	if opts.Force {
		op = models.SyncRefresh
	}

	if st.Exists() {
		if !opts.Force && hasLocalChanges(st, remote) {
			return nil, &LocalChangesError{Number: opts.Number}
		}
		if err := st.Remove(); err != nil {
			return nil, fmt.Errorf("removing cached copy: %w", err)
		}
	}

	if err := st.SaveBody(remote.Issue.BodyText()); err != nil {
		return nil, err
	}
	if err := st.SaveMetadata(models.NewIssueMetadata(remote.Issue)); err != nil {
		return nil, err
	}
	if err := st.SaveComments(remote.Comments); err != nil {
		return nil, err
	}

	if err := journal.RecordSync(&models.SyncRecord{
		Repo:        opts.Owner + "/" + opts.Repo,
		IssueNumber: opts.Number,
		Op:          op,
		Detail:      fmt.Sprintf("%d comments", len(remote.Comments)),
	}); err != nil {
		return nil, fmt.Errorf("recording sync: %w", err)
	}

	return &PullResult{Issue: remote.Issue, CommentCount: len(remote.Comments)}, nil
}

// Refresh discards the cached copy of an issue and pulls it again.
func Refresh(ctx context.Context, client github.Client, st *storage.IssueStorage, journal *store.Store, opts PullOptions) (*PullResult, error) {
	opts.Force = true
	return Pull(ctx, client, st, journal, opts)
}

// hasLocalChanges reports whether the cached copy differs from the
// remote state. A partial or unreadable cache counts as dirty, as
// does a synced comment file the user removed, so a plain pull never
// overwrites or restores anything it cannot account for. The check
// also trips when the remote itself moved since the last pull; that
// refusal is deliberate and refresh is the way past it.
func hasLocalChanges(st *storage.IssueStorage, remote *RemoteState) bool {
	local, err := LoadLocal(st)
	if err != nil {
		return true
	}
	changes, err := Detect(local, remote, "", DetectOptions{EditOthers: true, AllowDelete: true})
	if err != nil {
		return true
	}
	return changes.HasChanges()
}
