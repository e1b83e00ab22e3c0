package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kilupskalvis/givc/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a store in a temp directory for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStore_Initialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "givc.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	err = st.Initialize()
	assert.NoError(t, err)

	// Verify the schema exists by reading from the journal
	records, err := st.History("", 0, 0)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "givc.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Initialize())
}

func TestRecordSync_AssignsIDAndTimestamp(t *testing.T) {
	st := newTestStore(t)

	rec := &models.SyncRecord{
		Repo:        "octocat/hello",
		IssueNumber: 7,
		Op:          models.SyncPull,
		Detail:      "2 comments",
	}
	require.NoError(t, st.RecordSync(rec))

	assert.NotZero(t, rec.ID)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestRecordSync_KeepsExplicitTimestamp(t *testing.T) {
	st := newTestStore(t)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := &models.SyncRecord{
		Repo:        "octocat/hello",
		IssueNumber: 7,
		Op:          models.SyncPush,
		Timestamp:   ts,
	}
	require.NoError(t, st.RecordSync(rec))

	got, err := st.LastSync("octocat/hello", 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Timestamp.Equal(ts))
}

func TestHistory_NewestFirst(t *testing.T) {
	st := newTestStore(t)

	ops := []models.SyncOp{models.SyncPull, models.SyncPush, models.SyncRefresh}
	for _, op := range ops {
		require.NoError(t, st.RecordSync(&models.SyncRecord{
			Repo:        "octocat/hello",
			IssueNumber: 7,
			Op:          op,
		}))
	}

	records, err := st.History("", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, models.SyncRefresh, records[0].Op)
	assert.Equal(t, models.SyncPush, records[1].Op)
	assert.Equal(t, models.SyncPull, records[2].Op)
}

func TestHistory_Filters(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.RecordSync(&models.SyncRecord{Repo: "octocat/hello", IssueNumber: 1, Op: models.SyncPull}))
	require.NoError(t, st.RecordSync(&models.SyncRecord{Repo: "octocat/hello", IssueNumber: 2, Op: models.SyncPull}))
	require.NoError(t, st.RecordSync(&models.SyncRecord{Repo: "octocat/world", IssueNumber: 1, Op: models.SyncPush}))

	byRepo, err := st.History("octocat/hello", 0, 0)
	require.NoError(t, err)
	assert.Len(t, byRepo, 2)

	byIssue, err := st.History("octocat/hello", 2, 0)
	require.NoError(t, err)
	require.Len(t, byIssue, 1)
	assert.Equal(t, int64(2), byIssue[0].IssueNumber)

	all, err := st.History("", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHistory_Limit(t *testing.T) {
	st := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, st.RecordSync(&models.SyncRecord{
			Repo:        "octocat/hello",
			IssueNumber: 7,
			Op:          models.SyncPull,
		}))
	}

	records, err := st.History("octocat/hello", 7, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLastSync_NeverSynced(t *testing.T) {
	st := newTestStore(t)

	rec, err := st.LastSync("octocat/hello", 99)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLastSync_ReturnsNewest(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.RecordSync(&models.SyncRecord{Repo: "octocat/hello", IssueNumber: 7, Op: models.SyncPull, Detail: "old"}))
	require.NoError(t, st.RecordSync(&models.SyncRecord{Repo: "octocat/hello", IssueNumber: 7, Op: models.SyncPush, Detail: "new"}))

	rec, err := st.LastSync("octocat/hello", 7)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.SyncPush, rec.Op)
	assert.Equal(t, "new", rec.Detail)
}

func TestRunMigrations_FreshStoreIsNoop(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.RunMigrations())

	version, err := st.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestRunMigrations_BootstrapsFreshDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fresh.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	// The CLI opens the store and runs migrations with no separate
	// initialization step, so migrations alone must build the schema.
	require.NoError(t, st.RunMigrations())

	version, err := st.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)

	require.NoError(t, st.RecordSync(&models.SyncRecord{
		Repo:        "octocat/hello",
		IssueNumber: 7,
		Op:          models.SyncPull,
		Detail:      "2 comments",
	}))

	rec, err := st.LastSync("octocat/hello", 7)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2 comments", rec.Detail)

	require.NoError(t, st.RunMigrations())
}

func TestRunMigrations_AddsDetailColumn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "v1.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	// Build a v1 database by hand: no version table, no detail column
	_, err = st.db.Exec(`CREATE TABLE sync_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		repo TEXT NOT NULL,
		issue_number INTEGER NOT NULL,
		op TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	require.False(t, st.columnExists("sync_records", "detail"))

	require.NoError(t, st.RunMigrations())
	assert.True(t, st.columnExists("sync_records", "detail"))

	version, err := st.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// Migrated stores accept records with detail
	require.NoError(t, st.RecordSync(&models.SyncRecord{
		Repo:        "octocat/hello",
		IssueNumber: 1,
		Op:          models.SyncPull,
		Detail:      "1 comment",
	}))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.RunMigrations())
	require.NoError(t, st.RunMigrations())

	version, err := st.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}
