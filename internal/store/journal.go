package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kilupskalvis/givc/internal/models"
)

// RecordSync appends a record to the sync journal. A zero Timestamp
// is filled with the current time; the assigned ID is written back
// into rec.
func (s *Store) RecordSync(rec *models.SyncRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	res, err := s.db.Exec(
		`INSERT INTO sync_records (repo, issue_number, op, timestamp, detail) VALUES (?, ?, ?, ?, ?)`,
		rec.Repo, rec.IssueNumber, string(rec.Op), rec.Timestamp.Format(time.RFC3339), rec.Detail,
	)
	if err != nil {
		return fmt.Errorf("record sync: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// History returns journal records newest first. A non-empty repo or a
// positive number narrows the result; a positive limit caps it.
func (s *Store) History(repo string, number int64, limit int) ([]*models.SyncRecord, error) {
	query := `SELECT id, repo, issue_number, op, timestamp, detail FROM sync_records`
	var conds []string
	var args []interface{}
	if repo != "" {
		conds = append(conds, "repo = ?")
		args = append(args, repo)
	}
	if number > 0 {
		conds = append(conds, "issue_number = ?")
		args = append(args, number)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync history: %w", err)
	}
	defer rows.Close()

	var records []*models.SyncRecord
	for rows.Next() {
		rec, err := scanSyncRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LastSync returns the most recent journal record for one issue, or
// nil when the issue has never been synced.
func (s *Store) LastSync(repo string, number int64) (*models.SyncRecord, error) {
	records, err := s.History(repo, number, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func scanSyncRecord(rows *sql.Rows) (*models.SyncRecord, error) {
	var rec models.SyncRecord
	var op, ts string
	var detail sql.NullString
	if err := rows.Scan(&rec.ID, &rec.Repo, &rec.IssueNumber, &op, &ts, &detail); err != nil {
		return nil, fmt.Errorf("scan sync record: %w", err)
	}
	rec.Op = models.SyncOp(op)
	rec.Timestamp = parseTimestamp(ts)
	rec.Detail = detail.String
	return &rec, nil
}
