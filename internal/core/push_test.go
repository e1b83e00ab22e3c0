package core

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilupskalvis/givc/internal/github"
	"github.com/kilupskalvis/givc/internal/models"
	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/kilupskalvis/givc/internal/store"
)

// newSyncTestStore creates a journal store in a temp directory.
func newSyncTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "givc.db")
	js, err := store.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, js.Initialize())
	t.Cleanup(func() { js.Close() })
	return js
}

// seedLocal writes the remote snapshot to disk the way Pull would.
func seedLocal(t *testing.T, st *storage.IssueStorage, remote *RemoteState) {
	t.Helper()
	require.NoError(t, st.SaveBody(remote.Issue.BodyText()))
	require.NoError(t, st.SaveMetadata(models.NewIssueMetadata(remote.Issue)))
	require.NoError(t, st.SaveComments(remote.Comments))
}

// newPushFixture wires a mock remote, a seeded local copy of it, and
// a journal, as if the issue had just been pulled.
func newPushFixture(t *testing.T) (*github.MockClient, *storage.IssueStorage, *store.Store, *RemoteState) {
	t.Helper()
	remote := remoteFixture()
	mock := github.NewMockClient().
		WithIssue("octocat", "hello", remote.Issue).
		WithComments("octocat", "hello", 7, remote.Comments)
	st := storage.FromDir(filepath.Join(t.TempDir(), "issue"))
	seedLocal(t, st, remote)
	journal := newSyncTestStore(t)
	return mock, st, journal, remote
}

func pushOpts() PushOptions {
	return PushOptions{Owner: "octocat", Repo: "hello", Number: 7}
}

func TestPush_BodyEdit(t *testing.T) {
	mock, st, journal, _ := newPushFixture(t)
	require.NoError(t, st.SaveBody("Edited body"))

	var out bytes.Buffer
	result, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, []string{"Edited body"}, mock.UpdatedBodies)

	// Metadata re-anchored to the remote state after the mutation
	meta, err := st.ReadMetadata()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03T00:00:00Z", meta.UpdatedAt)

	rec, err := journal.LastSync("octocat/hello", 7)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.SyncPush, rec.Op)
	assert.Equal(t, "body", rec.Detail)
}

func TestPush_NoChanges(t *testing.T) {
	mock, st, journal, _ := newPushFixture(t)

	var out bytes.Buffer
	result, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.False(t, result.Changes.HasChanges())
	assert.Empty(t, mock.Calls)

	rec, err := journal.LastSync("octocat/hello", 7)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPush_DryRun(t *testing.T) {
	disableColor(t)
	mock, st, journal, _ := newPushFixture(t)
	require.NoError(t, st.SaveBody("Edited body"))

	opts := pushOpts()
	opts.DryRun = true
	var out bytes.Buffer
	result, err := Push(context.Background(), mock, st, journal, opts, &out)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.True(t, result.Changes.HasChanges())
	assert.Empty(t, mock.Calls)
	assert.Contains(t, out.String(), "=== Issue Body ===")

	// Token untouched — nothing was applied
	meta, err := st.ReadMetadata()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T00:00:00Z", meta.UpdatedAt)

	rec, err := journal.LastSync("octocat/hello", 7)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPush_ConflictGate(t *testing.T) {
	mock, st, journal, remote := newPushFixture(t)

	// Remote moves on after our pull
	body2 := "Remote body v2"
	remote.Issue.Body = &body2
	remote.Issue.UpdatedAt = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	require.NoError(t, st.SaveBody("Edited body"))

	var out bytes.Buffer
	_, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.Error(t, err)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "2024-01-02T00:00:00Z", conflict.Local)
	assert.Equal(t, "2024-01-05T00:00:00Z", conflict.Remote)
	assert.Empty(t, mock.Calls)

	opts := pushOpts()
	opts.Force = true
	result, err := Push(context.Background(), mock, st, journal, opts, &out)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, []string{"Edited body"}, mock.UpdatedBodies)
}

func TestPush_NotCached(t *testing.T) {
	mock := github.NewMockClient()
	st := storage.FromDir(filepath.Join(t.TempDir(), "missing"))
	journal := newSyncTestStore(t)

	var out bytes.Buffer
	_, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.Error(t, err)
	var notCached *NotCachedError
	require.ErrorAs(t, err, &notCached)
	assert.Contains(t, err.Error(), "pull")
	assert.Empty(t, mock.Calls)
}

func TestPush_ForeignComment(t *testing.T) {
	remote := remoteFixture()
	remote.Comments[0].Author = &models.Author{Login: "otheruser"}
	mock := github.NewMockClient().
		WithIssue("octocat", "hello", remote.Issue).
		WithComments("octocat", "hello", 7, remote.Comments)
	st := storage.FromDir(filepath.Join(t.TempDir(), "issue"))
	seedLocal(t, st, remote)
	journal := newSyncTestStore(t)

	edited := "<!-- author: otheruser -->\n" +
		"<!-- createdAt: 2024-01-01T12:00:00Z -->\n" +
		"<!-- id: IC_abc -->\n" +
		"<!-- databaseId: 101 -->\n" +
		"\n" +
		"Edited someone else's words"
	commentPath := filepath.Join(st.Dir(), "comments", "001_comment_101.md")
	require.NoError(t, os.WriteFile(commentPath, []byte(edited), 0644))

	var out bytes.Buffer
	_, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.Error(t, err)
	var perm *PermissionError
	require.ErrorAs(t, err, &perm)
	assert.Equal(t, "otheruser", perm.Author)
	assert.Empty(t, mock.Calls)

	opts := pushOpts()
	opts.EditOthers = true
	result, err := Push(context.Background(), mock, st, journal, opts, &out)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, []string{"UpdateComment 101"}, mock.Calls)
	assert.Equal(t, "Edited someone else's words", mock.UpdatedComments[101])
}

func TestPush_NewComment(t *testing.T) {
	mock, st, journal, _ := newPushFixture(t)
	_, err := st.CreateDraftComment("my_comment", "New comment")
	require.NoError(t, err)

	var out bytes.Buffer
	result, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, []string{"New comment"}, mock.CreatedBodies)

	// Draft consumed; a second push has nothing left to send
	comments, err := st.ReadComments()
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.False(t, comments[0].IsNew())

	result, err = Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Len(t, mock.CreatedBodies, 1)
}

func TestPush_DeleteComment(t *testing.T) {
	mock, st, journal, _ := newPushFixture(t)
	require.NoError(t, st.RemoveCommentFile("001_comment_101.md"))

	// Without --allow-delete the missing file means nothing
	var out bytes.Buffer
	result, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Empty(t, mock.DeletedComments)

	opts := pushOpts()
	opts.AllowDelete = true
	result, err = Push(context.Background(), mock, st, journal, opts, &out)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, []int64{101}, mock.DeletedComments)

	rec, err := journal.LastSync("octocat/hello", 7)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "1 comment", rec.Detail)
}

func TestPush_Labels(t *testing.T) {
	mock, st, journal, _ := newPushFixture(t)

	meta, err := st.ReadMetadata()
	require.NoError(t, err)
	meta.Labels = []string{"docs", "enhancement"}
	require.NoError(t, st.SaveMetadata(meta))

	var out bytes.Buffer
	result, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, []string{"RemoveLabel bug", "AddLabels [enhancement]"}, mock.Calls)
}

func TestPush_SecondPushIsIdempotent(t *testing.T) {
	mock, st, journal, _ := newPushFixture(t)
	require.NoError(t, st.SaveBody("Edited body"))

	var out bytes.Buffer
	first, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.NoError(t, err)
	require.True(t, first.Applied)

	second, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.False(t, second.Changes.HasChanges())
	assert.Len(t, mock.UpdatedBodies, 1)
}

// titleFailClient fails title updates while failing is set.
type titleFailClient struct {
	*github.MockClient
	failing bool
}

func (c *titleFailClient) UpdateIssueTitle(ctx context.Context, owner, repo string, number int64, title string) error {
	if c.failing {
		return fmt.Errorf("server on fire")
	}
	return c.MockClient.UpdateIssueTitle(ctx, owner, repo, number, title)
}

func TestPush_PartialFailureRecoversWithForce(t *testing.T) {
	mock, st, journal, _ := newPushFixture(t)
	client := &titleFailClient{MockClient: mock, failing: true}

	require.NoError(t, st.SaveBody("Edited body"))
	meta, err := st.ReadMetadata()
	require.NoError(t, err)
	meta.Title = "Edited title"
	require.NoError(t, st.SaveMetadata(meta))

	var out bytes.Buffer
	_, err = Push(context.Background(), client, st, journal, pushOpts(), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "updating title")

	// The body landed; the token was not re-anchored and no push was
	// journaled.
	assert.Equal(t, []string{"Edited body"}, mock.UpdatedBodies)
	meta, err = st.ReadMetadata()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T00:00:00Z", meta.UpdatedAt)
	rec, err := journal.LastSync("octocat/hello", 7)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// The failed apply moved the remote out from under the recorded
	// token, so a plain re-push trips the conflict gate.
	_, err = Push(context.Background(), client, st, journal, pushOpts(), &out)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	// A forced re-push sends only the title; the body is not re-sent.
	client.failing = false
	opts := pushOpts()
	opts.Force = true
	result, err := Push(context.Background(), client, st, journal, opts, &out)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, []string{"Edited body"}, mock.UpdatedBodies)
	assert.Equal(t, []string{"Edited title"}, mock.UpdatedTitles)
}

func TestPush_CurrentUserError(t *testing.T) {
	mock, st, journal, _ := newPushFixture(t)
	mock.Err = fmt.Errorf("token expired")

	var out bytes.Buffer
	_, err := Push(context.Background(), mock, st, journal, pushOpts(), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving current user")
}
