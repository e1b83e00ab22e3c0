package core

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/kilupskalvis/givc/internal/github"
	"github.com/kilupskalvis/givc/internal/storage"
)

// CommentChangeKind classifies a comment change.
type CommentChangeKind string

const (
	CommentNew     CommentChangeKind = "new"
	CommentUpdated CommentChangeKind = "updated"
	CommentDeleted CommentChangeKind = "deleted"
)

// BodyChange replaces the remote issue body with the local one.
type BodyChange struct {
	Local  string
	Remote string
}

// TitleChange replaces the remote title with the local one.
type TitleChange struct {
	Local  string
	Remote string
}

// LabelChange holds the set difference between local and remote
// labels, plus both sides sorted for display.
type LabelChange struct {
	Add          []string
	Remove       []string
	LocalSorted  []string
	RemoteSorted []string
}

// CommentChange is one New, Updated, or Deleted comment.
type CommentChange struct {
	Kind        CommentChangeKind
	Filename    string // New and Updated
	LocalBody   string
	RemoteBody  string
	DatabaseID  int64 // Updated and Deleted
	Author      string
	CurrentUser string
}

// ChangeSet is everything a push would send to the remote.
type ChangeSet struct {
	Body     *BodyChange
	Title    *TitleChange
	Labels   *LabelChange
	Comments []CommentChange
}

// HasChanges reports whether applying the set would do anything.
func (cs *ChangeSet) HasChanges() bool {
	return cs.Body != nil || cs.Title != nil || cs.Labels != nil || len(cs.Comments) > 0
}

// Summary returns a short description of the set, e.g. "body, labels,
// 2 comments".
func (cs *ChangeSet) Summary() string {
	var parts []string
	if cs.Body != nil {
		parts = append(parts, "body")
	}
	if cs.Title != nil {
		parts = append(parts, "title")
	}
	if cs.Labels != nil {
		parts = append(parts, "labels")
	}
	switch n := len(cs.Comments); {
	case n == 1:
		parts = append(parts, "1 comment")
	case n > 1:
		parts = append(parts, fmt.Sprintf("%d comments", n))
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}

// Display writes a human-readable preview of the change set.
func (cs *ChangeSet) Display(w io.Writer) {
	header := color.New(color.FgCyan, color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	if cs.Body != nil {
		header.Fprintln(w, "=== Issue Body ===")
		writeUnifiedDiff(w, cs.Body.Remote, cs.Body.Local)
		fmt.Fprintln(w)
	}
	if cs.Title != nil {
		header.Fprintln(w, "=== Title ===")
		red.Fprintf(w, "- %s\n", cs.Title.Remote)
		green.Fprintf(w, "+ %s\n", cs.Title.Local)
		fmt.Fprintln(w)
	}
	if cs.Labels != nil {
		header.Fprintln(w, "=== Labels ===")
		red.Fprintf(w, "- %v\n", cs.Labels.RemoteSorted)
		green.Fprintf(w, "+ %v\n", cs.Labels.LocalSorted)
		fmt.Fprintln(w)
	}
	for _, cc := range cs.Comments {
		switch cc.Kind {
		case CommentNew:
			header.Fprintf(w, "=== New Comment: %s ===\n", cc.Filename)
			fmt.Fprintln(w, cc.LocalBody)
		case CommentUpdated:
			if cc.Author != "" && cc.Author != cc.CurrentUser {
				header.Fprintf(w, "=== Comment: %s (author: %s) ===\n", cc.Filename, cc.Author)
			} else {
				header.Fprintf(w, "=== Comment: %s ===\n", cc.Filename)
			}
			writeUnifiedDiff(w, cc.RemoteBody, cc.LocalBody)
		case CommentDeleted:
			header.Fprintf(w, "=== Delete Comment %d (author: %s) ===\n", cc.DatabaseID, cc.Author)
			for _, line := range strings.Split(cc.RemoteBody, "\n") {
				red.Fprintf(w, "-%s\n", line)
			}
		}
		fmt.Fprintln(w)
	}
}

// writeUnifiedDiff renders a colorized unified diff from before to
// after.
func writeUnifiedDiff(w io.Writer, before, after string) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "remote",
		ToFile:   "local",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil || text == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			color.New(color.FgGreen).Fprintln(w, line)
		case strings.HasPrefix(line, "-"):
			color.New(color.FgRed).Fprintln(w, line)
		case strings.HasPrefix(line, "@@"):
			color.New(color.FgCyan).Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
}

// Apply sends the change set to the remote in a fixed order: body,
// title, label removals, label additions, then comments in detection
// order. Each call is awaited before the next starts; the first
// failure aborts, leaving already-applied changes in place.
func (cs *ChangeSet) Apply(ctx context.Context, client github.Client, owner, repo string, number int64, st *storage.IssueStorage, out io.Writer) error {
	if cs.Body != nil {
		fmt.Fprintln(out, "Updating issue body...")
		if err := client.UpdateIssueBody(ctx, owner, repo, number, cs.Body.Local); err != nil {
			return fmt.Errorf("updating body: %w", err)
		}
	}
	if cs.Title != nil {
		fmt.Fprintln(out, "Updating title...")
		if err := client.UpdateIssueTitle(ctx, owner, repo, number, cs.Title.Local); err != nil {
			return fmt.Errorf("updating title: %w", err)
		}
	}
	if cs.Labels != nil {
		fmt.Fprintln(out, "Updating labels...")
		for _, label := range cs.Labels.Remove {
			if err := client.RemoveLabel(ctx, owner, repo, number, label); err != nil {
				return fmt.Errorf("removing label %q: %w", label, err)
			}
		}
		if len(cs.Labels.Add) > 0 {
			if err := client.AddLabels(ctx, owner, repo, number, cs.Labels.Add); err != nil {
				return fmt.Errorf("adding labels: %w", err)
			}
		}
	}
	for _, cc := range cs.Comments {
		switch cc.Kind {
		case CommentNew:
			fmt.Fprintln(out, "Creating comment...")
			if _, err := client.CreateComment(ctx, owner, repo, number, cc.LocalBody); err != nil {
				return fmt.Errorf("creating comment from %s: %w", cc.Filename, err)
			}
			// The draft goes away once the comment exists remotely; the
			// next pull writes it back under its synced name.
			if err := st.RemoveCommentFile(cc.Filename); err != nil {
				return fmt.Errorf("removing draft %s: %w", cc.Filename, err)
			}
		case CommentUpdated:
			fmt.Fprintln(out, "Updating comment...")
			if err := client.UpdateComment(ctx, owner, repo, cc.DatabaseID, cc.LocalBody); err != nil {
				return fmt.Errorf("updating comment %d: %w", cc.DatabaseID, err)
			}
		case CommentDeleted:
			fmt.Fprintln(out, "Deleting comment...")
			if err := client.DeleteComment(ctx, owner, repo, cc.DatabaseID); err != nil {
				return fmt.Errorf("deleting comment %d: %w", cc.DatabaseID, err)
			}
		}
	}
	return nil
}
