package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kilupskalvis/givc/internal/models"
	"github.com/kilupskalvis/givc/internal/storage"
)

// DetectOptions control which comment changes detection generates.
type DetectOptions struct {
	// EditOthers allows changes to comments authored by someone other
	// than the acting user.
	EditOthers bool
	// AllowDelete turns remote comments with no local file into
	// deletion requests. Without it such comments are ignored.
	AllowDelete bool
}

// Detect compares the local snapshot against the remote one and
// returns the changes that would make the remote match the local copy.
// Detection never mutates either side.
func Detect(local *LocalState, remote *RemoteState, currentUser string, opts DetectOptions) (*ChangeSet, error) {
	cs := &ChangeSet{
		Body:   detectBodyChange(local.Body, remote.Issue),
		Title:  detectTitleChange(local.Meta, remote.Issue),
		Labels: detectLabelChange(local.Meta, remote.Issue),
	}
	comments, err := detectCommentChanges(local.Comments, remote.Comments, currentUser, opts)
	if err != nil {
		return nil, err
	}
	cs.Comments = comments
	return cs, nil
}

// CheckRemoteUnchanged gates mutation on the optimistic-concurrency
// token: the remote updatedAt must equal the one recorded at pull
// time. Force skips the check entirely.
func CheckRemoteUnchanged(meta *models.IssueMetadata, issue *models.Issue, force bool) error {
	if force {
		return nil
	}
	remoteTS := issue.UpdatedAt.Format(time.RFC3339)
	if meta.UpdatedAt == remoteTS {
		return nil
	}
	return &ConflictError{Local: meta.UpdatedAt, Remote: remoteTS}
}

func detectBodyChange(localBody string, issue *models.Issue) *BodyChange {
	local := strings.TrimRight(localBody, "\n")
	if local == issue.BodyText() {
		return nil
	}
	return &BodyChange{Local: local, Remote: issue.BodyText()}
}

func detectTitleChange(meta *models.IssueMetadata, issue *models.Issue) *TitleChange {
	if meta.Title == issue.Title {
		return nil
	}
	return &TitleChange{Local: meta.Title, Remote: issue.Title}
}

// detectLabelChange compares labels as sets; slice order never
// matters. Both sides are also returned sorted for display.
func detectLabelChange(meta *models.IssueMetadata, issue *models.Issue) *LabelChange {
	localSet := make(map[string]bool, len(meta.Labels))
	for _, name := range meta.Labels {
		localSet[name] = true
	}
	remoteSet := make(map[string]bool, len(issue.Labels))
	for _, l := range issue.Labels {
		remoteSet[l.Name] = true
	}

	var add, remove []string
	for name := range localSet {
		if !remoteSet[name] {
			add = append(add, name)
		}
	}
	for name := range remoteSet {
		if !localSet[name] {
			remove = append(remove, name)
		}
	}
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}

	localSorted := sortedKeys(localSet)
	remoteSorted := sortedKeys(remoteSet)
	sort.Strings(add)
	sort.Strings(remove)
	return &LabelChange{Add: add, Remove: remove, LocalSorted: localSorted, RemoteSorted: remoteSorted}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// detectCommentChanges classifies local comment files against the
// remote comment list:
//
//   - new_* files are always New.
//   - Files whose node id matches a remote comment and whose body
//     differs become Updated, after the author permission check.
//   - Files with no node id, or an id no remote comment carries, are
//     skipped.
//   - With AllowDelete, remote comments represented by no local file
//     become Deleted; otherwise they are left alone.
func detectCommentChanges(local []storage.LocalComment, remote []models.Comment, currentUser string, opts DetectOptions) ([]CommentChange, error) {
	byID := make(map[string]*models.Comment, len(remote))
	for i := range remote {
		byID[remote[i].ID] = &remote[i]
	}
	matched := make(map[string]bool, len(local))
	for _, lc := range local {
		if !lc.IsNew() && lc.Meta.ID != "" {
			matched[lc.Meta.ID] = true
		}
	}

	var changes []CommentChange
	for _, lc := range local {
		if lc.IsNew() {
			changes = append(changes, CommentChange{
				Kind:      CommentNew,
				Filename:  lc.Filename,
				LocalBody: lc.Body,
			})
			continue
		}
		if lc.Meta.ID == "" {
			continue
		}
		rc, ok := byID[lc.Meta.ID]
		if !ok {
			continue
		}
		if lc.Body == rc.Body {
			continue
		}
		if lc.Meta.DatabaseID == 0 {
			return nil, fmt.Errorf("comment %s: missing databaseId header", lc.Filename)
		}
		// Ownership comes from the recorded file header; a file with a
		// stripped author line never matches the current user.
		author := lc.Meta.Author
		if author == "" {
			author = "unknown"
		}
		if author != currentUser && !opts.EditOthers {
			return nil, &PermissionError{Action: "edit", Author: author, CurrentUser: currentUser}
		}
		changes = append(changes, CommentChange{
			Kind:        CommentUpdated,
			Filename:    lc.Filename,
			LocalBody:   lc.Body,
			RemoteBody:  rc.Body,
			DatabaseID:  lc.Meta.DatabaseID,
			Author:      author,
			CurrentUser: currentUser,
		})
	}

	if opts.AllowDelete {
		for i := range remote {
			rc := &remote[i]
			if matched[rc.ID] {
				continue
			}
			author := rc.AuthorLogin()
			if author != currentUser && !opts.EditOthers {
				return nil, &PermissionError{Action: "delete", Author: author, CurrentUser: currentUser}
			}
			changes = append(changes, CommentChange{
				Kind:        CommentDeleted,
				RemoteBody:  rc.Body,
				DatabaseID:  rc.DatabaseID,
				Author:      author,
				CurrentUser: currentUser,
			})
		}
	}
	return changes, nil
}
