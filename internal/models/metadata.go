package models

import "time"

// IssueMetadata is the frozen remote snapshot saved next to the
// editable files. UpdatedAt doubles as the optimistic-concurrency
// token: push refuses to mutate when the live remote no longer
// matches it.
type IssueMetadata struct {
	Number    int64    `json:"number"`
	Title     string   `json:"title"`
	State     string   `json:"state"`
	Labels    []string `json:"labels"`
	Assignees []string `json:"assignees"`
	Milestone *string  `json:"milestone,omitempty"`
	Author    string   `json:"author"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// NewIssueMetadata captures the remote issue state as metadata.
func NewIssueMetadata(issue *Issue) *IssueMetadata {
	assignees := make([]string, len(issue.Assignees))
	for i, a := range issue.Assignees {
		assignees[i] = a.Login
	}
	var milestone *string
	if issue.Milestone != nil {
		milestone = &issue.Milestone.Title
	}
	return &IssueMetadata{
		Number:    issue.Number,
		Title:     issue.Title,
		State:     issue.State,
		Labels:    issue.LabelNames(),
		Assignees: assignees,
		Milestone: milestone,
		Author:    issue.AuthorLogin(),
		CreatedAt: issue.CreatedAt.Format(time.RFC3339),
		UpdatedAt: issue.UpdatedAt.Format(time.RFC3339),
	}
}
