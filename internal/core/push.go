package core

import (
	"context"
	"fmt"
	"io"

	"github.com/kilupskalvis/givc/internal/github"
	"github.com/kilupskalvis/givc/internal/models"
	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/kilupskalvis/givc/internal/store"
)

// PushOptions configures a push operation.
type PushOptions struct {
	Owner       string
	Repo        string
	Number      int64
	DryRun      bool
	Force       bool
	EditOthers  bool
	AllowDelete bool
}

// PushResult contains the outcome of a push operation.
type PushResult struct {
	Changes *ChangeSet
	Applied bool
}

// Push compares the local copy of an issue against GitHub, displays
// the differences, and applies them. Unless opts.Force is set it
// refuses when the remote issue changed since the last pull, before
// touching anything.
//
// There is no rollback. A failed apply leaves the remote partially
// updated and the local metadata un-anchored, so the next push trips
// the conflict gate; pushing again with opts.Force sends only what
// still differs.
func Push(ctx context.Context, client github.Client, st *storage.IssueStorage, journal *store.Store, opts PushOptions, out io.Writer) (*PushResult, error) {
	if !st.Exists() {
		return nil, &NotCachedError{Number: opts.Number}
	}

	currentUser, err := client.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving current user: %w", err)
	}

	remote, err := FetchRemote(ctx, client, opts.Owner, opts.Repo, opts.Number)
	if err != nil {
		return nil, err
	}
	local, err := LoadLocal(st)
	if err != nil {
		return nil, err
	}

	if err := CheckRemoteUnchanged(local.Meta, remote.Issue, opts.Force); err != nil {
		return nil, err
	}

	changes, err := Detect(local, remote, currentUser, DetectOptions{
		EditOthers:  opts.EditOthers,
		AllowDelete: opts.AllowDelete,
	})
	if err != nil {
		return nil, err
	}

	changes.Display(out)

	result := &PushResult{Changes: changes}
	if opts.DryRun || !changes.HasChanges() {
		return result, nil
	}

	if err := changes.Apply(ctx, client, opts.Owner, opts.Repo, opts.Number, st, out); err != nil {
		return nil, err
	}

	// Re-fetch so the stored metadata matches what GitHub has after
	// our edits; otherwise the next push would see them as a conflict.
	issue, err := client.GetIssue(ctx, opts.Owner, opts.Repo, opts.Number)
	if err != nil {
		return nil, fmt.Errorf("refreshing metadata: %w", err)
	}
	if err := st.SaveMetadata(models.NewIssueMetadata(issue)); err != nil {
		return nil, err
	}

	if err := journal.RecordSync(&models.SyncRecord{
		Repo:        opts.Owner + "/" + opts.Repo,
		IssueNumber: opts.Number,
		Op:          models.SyncPush,
		Detail:      changes.Summary(),
	}); err != nil {
		return nil, fmt.Errorf("recording sync: %w", err)
	}

	result.Applied = true
	return result, nil
}
