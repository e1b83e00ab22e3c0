// Package core implements the domain logic for givc: change
// detection between the local copy of an issue and its GitHub state,
// and the pull, push, and diff operations built on top of it.
package core

import (
	"context"
	"fmt"
	"io"

	"github.com/kilupskalvis/givc/internal/github"
	"github.com/kilupskalvis/givc/internal/storage"
)

// DiffOptions configures a diff operation.
type DiffOptions struct {
	Owner  string
	Repo   string
	Number int64
}

// Diff fetches the remote state of an issue, compares it with the
// local copy, and writes the differences to out. It never mutates
// anything, so no policy gates apply: edits to other users' comments
// and pending deletions all show, covering everything a push with
// every flag set could send.
func Diff(ctx context.Context, client github.Client, st *storage.IssueStorage, opts DiffOptions, out io.Writer) (*ChangeSet, error) {
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

	changes, err := Detect(local, remote, currentUser, DetectOptions{EditOthers: true, AllowDelete: true})
	if err != nil {
		return nil, err
	}

	changes.Display(out)
	return changes, nil
}
