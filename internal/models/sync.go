package models

import "time"

// SyncOp is the kind of operation recorded in the sync journal.
type SyncOp string

const (
	SyncPull    SyncOp = "pull"
	SyncRefresh SyncOp = "refresh"
	SyncPush    SyncOp = "push"
)

// SyncRecord is one entry in the sync journal.
type SyncRecord struct {
	ID          int64     `json:"id"`
	Repo        string    `json:"repo"`
	IssueNumber int64     `json:"issue_number"`
	Op          SyncOp    `json:"op"`
	Timestamp   time.Time `json:"timestamp"`
	Detail      string    `json:"detail,omitempty"`
}
